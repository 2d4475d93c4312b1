//go:build rp2040 || rp2350

package main

import (
	"axisfw/hal"
	"machine"
)

// RPGPIODriver implements hal.GPIODriver directly on top of TinyGo's
// machine.Pin, adapted from the reference RP2040 GPIO adapter: pins map
// straight through to GPIO numbers, and the first call on a pin configures
// it lazily rather than requiring an explicit setup pass.
type RPGPIODriver struct {
	configuredPins map[hal.GPIOPin]machine.Pin
}

// NewRPGPIODriver constructs an empty RP2040 GPIO driver; pins are
// configured on first use.
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{configuredPins: make(map[hal.GPIOPin]machine.Pin)}
}

func (d *RPGPIODriver) ConfigureOutput(pin hal.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	machinePin := d.pinNumberToMachinePin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin
	return nil
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin hal.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	machinePin := d.pinNumberToMachinePin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.configuredPins[pin] = machinePin
	return nil
}

func (d *RPGPIODriver) ConfigureInputPullDown(pin hal.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	machinePin := d.pinNumberToMachinePin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	d.configuredPins[pin] = machinePin
	return nil
}

func (d *RPGPIODriver) SetPin(pin hal.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}
	machinePin.Set(value)
	return nil
}

func (d *RPGPIODriver) GetPin(pin hal.GPIOPin) (bool, error) {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return false, nil
	}
	return machinePin.Get(), nil
}

// pinNumberToMachinePin maps a GPIOPin straight to the RP2040's GPIO
// numbering: GPIO0 = 0, GPIO1 = 1, and so on.
func (d *RPGPIODriver) pinNumberToMachinePin(pin hal.GPIOPin) machine.Pin {
	return machine.Pin(pin)
}
