package link

import (
	"errors"
	"io"
)

// Port is the transport Client's readLoop, and cmd/axisfw's own
// frame-serving loop, exchange stuffed, CRC-framed bytes over — the raw
// byte stream protocol.SplitDelimited/DecodeFrame/EncodeFrame run against.
// Native serial (serial_native.go) is the only production implementation;
// client_test.go substitutes an io.Pipe-backed double so the wire codec
// can be exercised without a real port.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data.
	Flush() error
}

// Config holds the parameters a Port is opened with.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC devices ignore this; a real UART link needs it
	// set to match the firmware's configuration.
	Baud int

	// ReadTimeout bounds how long a single Read call blocks with no bytes
	// pending, in milliseconds. It governs how promptly Client's
	// background readLoop notices a closed Port or newly arrived frame
	// bytes; it is unrelated to a Client Request's own deadline, which
	// may span many such polls while waiting on a response.
	ReadTimeout int
}

// DefaultConfig returns this repository's usual axis link parameters:
// 250000 baud, polling for new bytes every 100ms.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        250000,
		ReadTimeout: 100,
	}
}

// ErrNilConfig is returned by OpenPort when given a nil Config.
var ErrNilConfig = errors.New("link: config cannot be nil")
