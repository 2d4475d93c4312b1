//go:build tinygo

package driver

import (
	"machine"

	"tinygo.org/x/drivers/as5600"
)

// as5600CountsPerRev is the AS5600's fixed 12-bit angular resolution.
const as5600CountsPerRev = 4096

// AS5600Encoder adapts tinygo.org/x/drivers' AS5600 magnetic rotary
// encoder driver to the Encoder interface.
type AS5600Encoder struct {
	dev as5600.Device
}

// NewAS5600Encoder constructs an encoder on the given I2C bus.
func NewAS5600Encoder(bus *machine.I2C) *AS5600Encoder {
	return &AS5600Encoder{dev: as5600.New(bus)}
}

func (e *AS5600Encoder) Configure() error {
	e.dev.Configure(as5600.Config{})
	return nil
}

func (e *AS5600Encoder) CountsPerRev() uint16 { return as5600CountsPerRev }

func (e *AS5600Encoder) Position() (uint16, error) {
	angle, err := e.dev.ReadAngle()
	if err != nil {
		return 0, err
	}
	return uint16(angle), nil
}
