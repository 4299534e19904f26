package scpi

import (
	"io"

	goserial "github.com/jacobsa/go-serial/serial"
)

type PortConfig struct {
	Name     string
	BaudRate uint
	DataBits uint
	StopBits uint
}

// OpenPort opens the instrument's virtual COM port. The inter character
// timeout keeps reads returning periodically so that Client can honor
// its own deadline between polls.
func OpenPort(cfg PortConfig) (io.ReadWriteCloser, error) {
	options := goserial.OpenOptions{
		PortName:              cfg.Name,
		BaudRate:              cfg.BaudRate,
		DataBits:              cfg.DataBits,
		StopBits:              cfg.StopBits,
		ParityMode:            goserial.PARITY_NONE,
		InterCharacterTimeout: 100,
		MinimumReadSize:       0,
	}

	return goserial.Open(options)
}
