//go:build !wasm

package link

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"axisfw/hal"
)

// nativePort wraps github.com/tarm/serial to satisfy Port. Every I/O
// failure is also recorded through hal.RecordTiming as an EvtLinkError,
// so a dropped host link shows up in the same post-mortem timing ring the
// firmware records EvtFrameCrcErr into, rather than only reaching a log
// line no one is watching at the time.
type nativePort struct {
	port *serial.Port
}

// OpenPort opens a native serial connection.
func OpenPort(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	p, err := serial.OpenPort(sc)
	if err != nil {
		hal.RecordTiming(hal.EvtLinkError, hal.GetTime(), 0, 0)
		return nil, fmt.Errorf("link: open %s: %w", cfg.Device, err)
	}

	return &nativePort{port: p}, nil
}

func (p *nativePort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if err != nil {
		hal.RecordTiming(hal.EvtLinkError, hal.GetTime(), uint32(n), 0)
	}
	return n, err
}

func (p *nativePort) Write(b []byte) (int, error) {
	n, err := p.port.Write(b)
	if err != nil {
		hal.RecordTiming(hal.EvtLinkError, hal.GetTime(), uint32(n), 1)
	}
	return n, err
}

func (p *nativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush is a no-op: tarm/serial writes synchronously, and exposes no
// separate call to wait on buffered data actually reaching the wire.
func (p *nativePort) Flush() error {
	return nil
}
