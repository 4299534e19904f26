package bristol671

import (
	"context"
	"fmt"
	"io"

	"github.com/lightbench/bristol671/internal/scpi"
	"github.com/pkg/errors"
)

var ErrInvalidArgument = errors.New("invalid argument for scpi command")

type Closer func() error

func NullCloser() error { return nil }

// Instrument is a Bristol 671 laser wavelength meter attached through
// its serial interface. All I/O is synchronous request/response; an
// Instrument must not be shared between goroutines.
type Instrument struct {
	client *scpi.Client
}

// Open connects to the meter on the given serial port.
func Open(port string, cfg *Config) (*Instrument, Closer, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.normalize()

	rwc, err := scpi.OpenPort(scpi.PortConfig{
		Name:     port,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
	})
	if err != nil {
		return nil, NullCloser, errors.Wrapf(err, "could not open serial port %s", port)
	}

	return New(rwc, cfg)
}

// New wraps an already opened connection, e.g. a GPIB bridge or a test
// pipe.
func New(conn io.ReadWriteCloser, cfg *Config) (*Instrument, Closer, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.normalize()

	in := Instrument{
		client: scpi.NewClient(conn, scpi.Options{
			Timeout: cfg.Timeout,
			Logger:  cfg.Logger,
		}),
	}

	return &in, in.close, nil
}

func (in *Instrument) close() error {
	return in.client.Close()
}

type Identification struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
}

// Identification queries *IDN?.
func (in *Instrument) Identification(ctx context.Context) (Identification, error) {
	reply, err := in.client.Exec(ctx, "*IDN?")
	if err != nil {
		return Identification{}, err
	}

	parts, err := splitReply(reply, 4, "*IDN")
	if err != nil {
		return Identification{}, err
	}

	return Identification{
		Manufacturer: parts[0],
		Model:        parts[1],
		Serial:       parts[2],
		Firmware:     parts[3],
	}, nil
}

// ClearStatus sends *CLS, clearing the event status register and the
// SYSTEM:ERROR queue.
func (in *Instrument) ClearStatus(ctx context.Context) error {
	return in.client.Send(ctx, "*CLS")
}

// Reset sends *RST, restoring the instrument's default settings.
func (in *Instrument) Reset(ctx context.Context) error {
	return in.client.Send(ctx, "*RST")
}

// SaveState sends *SAV, persisting the current instrument settings.
func (in *Instrument) SaveState(ctx context.Context) error {
	return in.client.Send(ctx, "*SAV")
}

// RestoreState sends *RCL, restoring settings last saved with *SAV.
func (in *Instrument) RestoreState(ctx context.Context) error {
	return in.client.Send(ctx, "*RCL")
}

// EventStatusEnable queries *ESE?, the mask selecting which event
// status bits feed the status byte summary.
func (in *Instrument) EventStatusEnable(ctx context.Context) (EventStatus, error) {
	v, err := in.queryInt(ctx, "*ESE?")
	return EventStatus(v), err
}

// SetEventStatusEnable writes *ESE. The mask must fit the 8 bit
// register.
func (in *Instrument) SetEventStatusEnable(ctx context.Context, mask EventStatus) error {
	if mask > 0xFF {
		return errors.Wrapf(ErrInvalidArgument, "*ESE mask %d is outside [0, 255]", uint16(mask))
	}

	return in.client.Send(ctx, fmt.Sprintf("*ESE %d", uint16(mask)))
}

// EventStatus queries *ESR?. Reading clears the register on the
// instrument.
func (in *Instrument) EventStatus(ctx context.Context) (EventStatus, error) {
	v, err := in.queryInt(ctx, "*ESR?")
	return EventStatus(v), err
}

// OperationComplete queries *OPC?.
func (in *Instrument) OperationComplete(ctx context.Context) (bool, error) {
	v, err := in.queryInt(ctx, "*OPC?")
	return v == 1, err
}

// StatusByte queries *STB?.
func (in *Instrument) StatusByte(ctx context.Context) (StatusByte, error) {
	v, err := in.queryInt(ctx, "*STB?")
	return StatusByte(v), err
}

// QuestionableCondition queries STATUS:QUESTIONABLE:CONDITION?, the
// live view of measurement quality faults.
func (in *Instrument) QuestionableCondition(ctx context.Context) (QuestionableStatus, error) {
	v, err := in.queryInt(ctx, "STATUS:QUESTIONABLE:CONDITION?")
	return QuestionableStatus(v), err
}

// QuestionableEnable queries STATUS:QUESTIONABLE:ENABLE?.
func (in *Instrument) QuestionableEnable(ctx context.Context) (QuestionableStatus, error) {
	v, err := in.queryInt(ctx, "STATUS:QUESTIONABLE:ENABLE?")
	return QuestionableStatus(v), err
}

// SetQuestionableEnable writes STATUS:QUESTIONABLE:ENABLE. The mask
// must fit the 11 bit register.
func (in *Instrument) SetQuestionableEnable(ctx context.Context, mask QuestionableStatus) error {
	if mask >= 1<<questionableWidth {
		return errors.Wrapf(
			ErrInvalidArgument,
			"questionable enable mask %d does not fit %d bits", uint16(mask), questionableWidth,
		)
	}

	return in.client.Send(ctx, fmt.Sprintf("STATUS:QUESTIONABLE:ENABLE %d", uint16(mask)))
}

func (in *Instrument) queryInt(ctx context.Context, cmd string) (int, error) {
	reply, err := in.client.Exec(ctx, cmd)
	if err != nil {
		return 0, err
	}

	return toInt(reply, cmd)
}

func (in *Instrument) queryFloat(ctx context.Context, cmd string) (float64, error) {
	reply, err := in.client.Exec(ctx, cmd)
	if err != nil {
		return 0, err
	}

	return toFloat(reply, cmd)
}
