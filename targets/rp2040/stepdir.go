//go:build rp2040 || rp2350

package main

import (
	"time"

	"axisfw/axiserr"
	"axisfw/driver"
	"axisfw/hal"
)

// GPIODriver is the hardware Driver implementation for the RP2040 target:
// it toggles real step/dir/enable pins through hal.GPIODriver instead of
// driver.SimDriver's in-memory position counter. State transitions and
// timing follow SimDriver's logic exactly since both are ports of the same
// GenericStepDirDriver reference.
type GPIODriver struct {
	cfg       driver.Config
	gpio      hal.GPIODriver
	state     driver.State
	direction driver.Direction
	position  int32
	faultCode uint8
}

// NewGPIODriver constructs a hardware driver bound to gpio and configures
// whichever of the step/dir/enable pins the config marks as used.
func NewGPIODriver(gpio hal.GPIODriver, cfg driver.Config) (*GPIODriver, error) {
	d := &GPIODriver{cfg: cfg, gpio: gpio, state: driver.StateDisabled}
	if cfg.Pins.StepPinUsed {
		if err := gpio.ConfigureOutput(hal.GPIOPin(cfg.Pins.StepPin)); err != nil {
			return nil, err
		}
	}
	if cfg.Pins.DirPinUsed {
		if err := gpio.ConfigureOutput(hal.GPIOPin(cfg.Pins.DirPin)); err != nil {
			return nil, err
		}
	}
	if cfg.Pins.EnablePinUsed {
		if err := gpio.ConfigureOutput(hal.GPIOPin(cfg.Pins.EnablePin)); err != nil {
			return nil, err
		}
		_ = gpio.SetPin(hal.GPIOPin(cfg.Pins.EnablePin), d.enablePinLevel(false))
	}
	return d, nil
}

func (d *GPIODriver) enablePinLevel(enabled bool) bool {
	if d.cfg.Pins.EnableActiveLow {
		return !enabled
	}
	return enabled
}

func (d *GPIODriver) Enable() error {
	if d.state == driver.StateFault {
		return axiserr.ErrEnableFailed
	}
	if d.cfg.Pins.EnablePinUsed {
		if err := d.gpio.SetPin(hal.GPIOPin(d.cfg.Pins.EnablePin), d.enablePinLevel(true)); err != nil {
			return axiserr.ErrEnableFailed
		}
	}
	if d.cfg.Timing.EnableDelayMS > 0 {
		time.Sleep(time.Duration(d.cfg.Timing.EnableDelayMS) * time.Millisecond)
	}
	d.state = driver.StateEnabled
	return nil
}

func (d *GPIODriver) Disable() {
	if d.cfg.Pins.EnablePinUsed {
		_ = d.gpio.SetPin(hal.GPIOPin(d.cfg.Pins.EnablePin), d.enablePinLevel(false))
	}
	d.state = driver.StateDisabled
}

func (d *GPIODriver) IsEnabled() bool     { return d.state == driver.StateEnabled }
func (d *GPIODriver) State() driver.State { return d.state }

func (d *GPIODriver) SetDirection(dir driver.Direction) {
	if d.direction == dir {
		return
	}
	d.direction = dir
	if d.cfg.Pins.DirPinUsed {
		level := dir == driver.Forward
		if d.cfg.Pins.DirInvert {
			level = !level
		}
		_ = d.gpio.SetPin(hal.GPIOPin(d.cfg.Pins.DirPin), level)
	}
	if d.cfg.Timing.DirSetupUS > 0 {
		time.Sleep(time.Duration(d.cfg.Timing.DirSetupUS) * time.Microsecond)
	}
}

func (d *GPIODriver) Direction() driver.Direction { return d.direction }

func (d *GPIODriver) Step() error {
	if d.state != driver.StateEnabled {
		return axiserr.ErrNotInitialized
	}
	if d.cfg.Pins.StepPinUsed {
		pin := hal.GPIOPin(d.cfg.Pins.StepPin)
		_ = d.gpio.SetPin(pin, true)
		if d.cfg.Timing.StepPulseUS > 0 {
			time.Sleep(time.Duration(d.cfg.Timing.StepPulseUS) * time.Microsecond)
		}
		_ = d.gpio.SetPin(pin, false)
	}
	if d.direction == driver.Forward {
		d.position++
	} else {
		d.position--
	}
	return nil
}

// StepMultiple mirrors SimDriver's pacing loop: it bit-bangs count pulses
// spaced to match stepsPerSecond, stopping early if a step fails.
func (d *GPIODriver) StepMultiple(count uint32, stepsPerSecond uint32) (uint32, error) {
	if d.state != driver.StateEnabled || count == 0 || stepsPerSecond == 0 {
		return 0, nil
	}

	stepDelay := time.Duration(1_000_000/stepsPerSecond) * time.Microsecond
	minDelay := 2 * time.Duration(d.cfg.Timing.StepPulseUS) * time.Microsecond
	if stepDelay < minDelay {
		stepDelay = minDelay
	}

	var done uint32
	for i := uint32(0); i < count; i++ {
		if err := d.Step(); err != nil {
			break
		}
		done++
		if i < count-1 {
			gap := stepDelay - time.Duration(d.cfg.Timing.StepPulseUS)*time.Microsecond
			if gap > 0 {
				time.Sleep(gap)
			}
		}
	}
	return done, nil
}

func (d *GPIODriver) Position() int32            { return d.position }
func (d *GPIODriver) SetPosition(position int32) { d.position = position }

func (d *GPIODriver) IsFault() bool { return d.state == driver.StateFault }

func (d *GPIODriver) Fault(code uint8) {
	d.Disable()
	d.state = driver.StateFault
	d.faultCode = code
}

func (d *GPIODriver) ClearFault() error {
	if d.state != driver.StateFault {
		return nil
	}
	d.state = driver.StateDisabled
	d.faultCode = 0
	return nil
}

func (d *GPIODriver) FaultCode() uint8 { return d.faultCode }
