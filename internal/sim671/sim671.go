package sim671

import (
	"bufio"
	"fmt"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"io"
	"net"
	"os"
	"strings"
	"sync"
)

var ErrScriptInvalid = errors.New("simulator script invalid")

const noError = `0,"No error"`

// Simulator speaks the Bristol 671 reply dialect over an in memory
// duplex so driver behavior can be verified without hardware. Replies
// are looked up by the exact query line; bare set commands store their
// argument for the matching query, which covers UNIT:POWER, *ESE,
// SENSE:AVERAGE:* and STATUS:QUESTIONABLE:ENABLE in one rule.
type Simulator struct {
	mu      sync.Mutex
	replies map[string]string
	queue   []string
	journal []string
	host    net.Conn
}

func New() *Simulator {
	return &Simulator{replies: defaultReplies()}
}

// defaultReplies approximate a healthy 671A-NIR answering on its
// virtual COM port.
func defaultReplies() map[string]string {
	return map[string]string{
		"*IDN?": "Bristol Instruments Inc.,671A-NIR,6894,V2.12",
		"*ESE?": "0",
		"*ESR?": "0",
		"*OPC?": "1",
		"*STB?": "0",

		"FETCH:WAVELENGTH?":   "1560.123456",
		"READ:WAVELENGTH?":    "1560.123482",
		"MEASURE:WAVELENGTH?": "1560.123411",

		"FETCH:FREQUENCY?":   "192.174835",
		"READ:FREQUENCY?":    "192.174832",
		"MEASURE:FREQUENCY?": "192.174840",

		"FETCH:POWER?":   "7.13",
		"READ:POWER?":    "7.12",
		"MEASURE:POWER?": "7.14",

		"FETCH:WNUMBER?":   "6409.770196",
		"READ:WNUMBER?":    "6409.770089",
		"MEASURE:WNUMBER?": "6409.770301",

		"FETCH:ENV?":   "+25.4 C,+755.2 MMHG",
		"READ:ENV?":    "+25.4 C,+755.2 MMHG",
		"MEASURE:ENV?": "+25.5 C,+755.2 MMHG",

		"FETCH:ALL?":   "119,0,1560.123456,7.13",
		"READ:ALL?":    "120,0,1560.123482,7.12",
		"MEASURE:ALL?": "121,0,1560.123411,7.14",

		"UNIT:POWER?":          "MW",
		"SENSE:AVERAGE:STATE?": "OFF",
		"SENSE:AVERAGE:COUNT?": "2",

		"SENSE:AVERAGE:DATA? POWER":      "7.11",
		"SENSE:AVERAGE:DATA? FREQUENCY":  "192.174834",
		"SENSE:AVERAGE:DATA? WAVELENGTH": "1560.123450",
		"SENSE:AVERAGE:DATA? WAVENUMBER": "6409.770142",

		"STATUS:QUESTIONABLE:CONDITION?": "0",
		"STATUS:QUESTIONABLE:ENABLE?":    "0",
	}
}

// Connect hands out the driver side of the duplex and starts serving
// the host side.
func (s *Simulator) Connect() io.ReadWriteCloser {
	client, host := net.Pipe()
	s.host = host

	go s.serve()

	return client
}

func (s *Simulator) Close() error {
	if s.host == nil {
		return nil
	}

	return s.host.Close()
}

func (s *Simulator) SetReply(query, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replies[query] = reply
}

// PushError appends an entry to the SYSTEM:ERROR? fifo.
func (s *Simulator) PushError(code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, fmt.Sprintf(`%d,"%s"`, code, message))
}

// Journal lists every command line received so far.
func (s *Simulator) Journal() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.journal))
	copy(out, s.journal)
	return out
}

// LoadScript merges reply overrides and queued errors from a json
// scenario file:
//
//	{"replies": {"FETCH:WAVELENGTH?": "1064.492310"},
//	 "errors": [{"code": -222, "message": "Data out of range"}]}
func (s *Simulator) LoadScript(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(ErrScriptInvalid, err.Error())
	}

	if !gjson.ValidBytes(b) {
		return errors.Wrapf(ErrScriptInvalid, "%s is not valid json", path)
	}

	doc := gjson.ParseBytes(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc.Get("replies").ForEach(func(query, reply gjson.Result) bool {
		s.replies[query.String()] = reply.String()
		return true
	})

	for _, entry := range doc.Get("errors").Array() {
		s.queue = append(
			s.queue,
			fmt.Sprintf(`%d,"%s"`, entry.Get("code").Int(), entry.Get("message").String()),
		)
	}

	return nil
}

func (s *Simulator) serve() {
	sc := bufio.NewScanner(s.host)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		reply, ok := s.handle(line)
		if !ok {
			continue
		}

		if _, err := s.host.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}

func (s *Simulator) handle(line string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal = append(s.journal, line)

	if line == "*CLS" {
		s.queue = nil
		return "", false
	}

	if line == "SYSTEM:ERROR?" {
		if len(s.queue) == 0 {
			return noError, true
		}

		head := s.queue[0]
		s.queue = s.queue[1:]
		return head, true
	}

	if strings.Contains(line, "?") {
		// unknown queries stay silent, like an instrument that does
		// not recognize the command
		reply, ok := s.replies[line]
		return reply, ok
	}

	if i := strings.IndexByte(line, ' '); i > 0 {
		s.replies[line[:i]+"?"] = strings.TrimSpace(line[i+1:])
	}

	return "", false
}
