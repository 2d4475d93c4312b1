package pulsegen

import "axisfw/hal"

// timerMaxFrequency is the interrupt-timer variant's frequency cap (§4.4).
const timerMaxFrequency = 50_000
const timerMinFrequency = 1

// TimerGenerator is the interrupt-timer-backed pulse generator variant. It
// toggles a GPIO pin from a scheduled callback rather than a PWM
// peripheral, which is why its frequency ceiling is two orders of
// magnitude lower than PWMGenerator's: every pulse costs a full
// schedule/dispatch round trip instead of running autonomously in hardware.
type TimerGenerator struct {
	base
	pin    hal.GPIOPin
	driver hal.GPIODriver
	timer  hal.Timer
}

// NewTimerGenerator constructs an interrupt-timer-backed generator toggling pin.
func NewTimerGenerator(driver hal.GPIODriver, pin hal.GPIOPin, pulseWidthUS uint32) *TimerGenerator {
	return &TimerGenerator{
		base:   newBase(timerMinFrequency, timerMaxFrequency, pulseWidthUS),
		pin:    pin,
		driver: driver,
	}
}

func (g *TimerGenerator) Start() error {
	if err := g.canStart(); err != nil {
		return err
	}
	g.state = StateRunning
	_ = g.driver.SetPin(g.pin, false)
	g.scheduleRisingEdge()
	return nil
}

// SetFrequency validates and stores the new frequency; a running generator
// picks up the new period at the next scheduled pulse boundary.
func (g *TimerGenerator) SetFrequency(hz uint32) error {
	return g.base.SetFrequency(hz)
}

// Stop is idempotent and always leaves the pin low.
func (g *TimerGenerator) Stop() {
	if g.state == StateIdle {
		return
	}
	_ = g.driver.SetPin(g.pin, false)
	g.state = StateIdle
}

func (g *TimerGenerator) scheduleRisingEdge() {
	periodUS := uint32(1_000_000) / g.frequency
	g.timer = hal.Timer{
		WakeTime: hal.GetTime() + hal.TimerFromUS(periodUS),
		Handler:  g.onRisingEdge,
	}
	hal.ScheduleTimer(&g.timer)
}

// onRisingEdge and onFallingEdge run at ISR priority in the tinygo build
// (they are hal.Timer handlers dispatched from hal.ProcessTimers, which the
// firmware main loop calls at high frequency). Only the atomic fields in
// base are touched here; g.state is written only from Start/Stop, which
// this package's caller (the motion tick) never calls concurrently with a
// dispatch, per the ordering guarantee in SPEC_FULL.md §5.
func (g *TimerGenerator) onRisingEdge(*hal.Timer) uint8 {
	if g.state != StateRunning {
		return hal.SFDone
	}
	_ = g.driver.SetPin(g.pin, true)

	g.timer = hal.Timer{
		WakeTime: hal.GetTime() + hal.TimerFromUS(g.pulseWidthUS),
		Handler:  g.onFallingEdge,
	}
	hal.ScheduleTimer(&g.timer)
	return hal.SFDone
}

func (g *TimerGenerator) onFallingEdge(*hal.Timer) uint8 {
	_ = g.driver.SetPin(g.pin, false)
	if g.onPulse() {
		g.Stop()
		return hal.SFDone
	}
	if g.state == StateRunning {
		g.scheduleRisingEdge()
	}
	return hal.SFDone
}
