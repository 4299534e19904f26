package scpi

import (
	"context"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"io"
	"strings"
	"time"
)

var ErrClosed = errors.New("scpi connection already closed")
var ErrReadTimeout = errors.New("scpi reply read timed out")
var ErrWriteFailed = errors.New("scpi command write failed")

const defaultTimeout = 2 * time.Second
const pollInterval = 50 * time.Millisecond

// deadlineConn is satisfied by net.Conn style transports. Serial ports
// without deadlines are polled with their own read timeout instead.
type deadlineConn interface {
	SetReadDeadline(t time.Time) error
}

type Options struct {
	Timeout    time.Duration
	Terminator byte
	Logger     *zap.Logger
}

func (o *Options) normalize() {
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}

	if o.Terminator == 0 {
		o.Terminator = '\n'
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Client pairs one textual command with at most one terminated reply
// line over a raw connection. There is no pipelining and no internal
// concurrency, the instrument protocol is strictly request/response.
type Client struct {
	rwc    io.ReadWriteCloser
	opts   Options
	closed bool
}

func NewClient(rwc io.ReadWriteCloser, opts Options) *Client {
	opts.normalize()
	return &Client{rwc: rwc, opts: opts}
}

func (c *Client) Close() error {
	if c.closed {
		return ErrClosed
	}

	c.closed = true
	return c.rwc.Close()
}

// Send writes a command that produces no reply.
func (c *Client) Send(ctx context.Context, cmd string) error {
	if c.closed {
		return ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c.opts.Logger.Debug("scpi tx", zap.String("cmd", cmd))

	payload := append([]byte(cmd), c.opts.Terminator)
	if _, err := c.rwc.Write(payload); err != nil {
		return errors.Wrapf(ErrWriteFailed, "command %s - %s", cmd, err.Error())
	}

	return nil
}

// Exec writes a query and reads a single terminated reply line. The
// terminator and a trailing carriage return are stripped.
func (c *Client) Exec(ctx context.Context, cmd string) (string, error) {
	if err := c.Send(ctx, cmd); err != nil {
		return "", err
	}

	reply, err := c.readReply(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "query %s", cmd)
	}

	c.opts.Logger.Debug("scpi rx", zap.String("cmd", cmd), zap.String("reply", reply))

	return reply, nil
}

func (c *Client) readReply(ctx context.Context) (string, error) {
	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var sb strings.Builder
	buf := make([]byte, 1)

	for {
		// deadline first, so an expired context deadline surfaces as
		// ErrReadTimeout rather than racing ctx.Err()
		if !time.Now().Before(deadline) {
			return "", ErrReadTimeout
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		if dc, ok := c.rwc.(deadlineConn); ok {
			slot := time.Now().Add(pollInterval)
			if deadline.Before(slot) {
				slot = deadline
			}

			if err := dc.SetReadDeadline(slot); err != nil {
				return "", errors.Wrap(ErrReadTimeout, err.Error())
			}
		}

		n, err := c.rwc.Read(buf)
		if n > 0 {
			if buf[0] == c.opts.Terminator {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}

			sb.WriteByte(buf[0])
			continue
		}

		if err == nil || isTimeout(err) {
			// an expired poll slot surfaces as a zero byte read or a
			// timeout error depending on the transport
			continue
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return "", ErrClosed
		}

		return "", err
	}
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}
