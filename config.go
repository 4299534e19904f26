package bristol671

import (
	"time"

	"go.uber.org/zap"
)

const defaultBaudRate uint = 921600
const defaultTimeout = 2 * time.Second

// Config tunes the serial link and the reply handling. The zero value
// matches the instrument's factory settings, so passing nil to Open is
// fine.
type Config struct {
	BaudRate uint
	DataBits uint
	StopBits uint

	// Timeout bounds every reply read. The instrument answers well
	// under a second even for MEASURE queries that wait for a scan.
	Timeout time.Duration

	// Logger traces every command and reply line at debug level.
	Logger *zap.Logger
}

func (cfg *Config) normalize() {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = defaultBaudRate
	}

	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}

	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}
