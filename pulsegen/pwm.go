package pulsegen

import "axisfw/hal"

// pwmMaxFrequency is the hardware-PWM variant's frequency cap (§4.4).
const pwmMaxFrequency = 500_000

// pwmMinFrequency is a practical floor: below this the PWM peripheral's
// period register would need more bits than most timer peripherals carry.
const pwmMinFrequency = 1

// dutyFloorPctE4 and dutyCeilPctE4 bound the duty-cycle policy of §4.4: a floor
// so the pulse's leading edge is never lost at very low rates, a ceiling so
// the pulse width never dominates the period at high rates.
const (
	dutyFloorPctE4 = 10   // 0.1% in units of 1e-4
	dutyCeilPctE4  = 5000 // 50% in units of 1e-4
)

// PWMGenerator is the hardware-PWM-backed pulse generator variant, capped
// at 500kHz. Its duty cycle is derived from a fixed pulse width in
// microseconds, clamped into [0.1%, 50%] as the period shrinks or grows.
type PWMGenerator struct {
	base
	pin    hal.PWMPin
	driver hal.PWMDriver
	timer  hal.Timer
}

// NewPWMGenerator constructs a PWM-backed generator driving pin through
// driver, with the given fixed pulse width in microseconds.
func NewPWMGenerator(driver hal.PWMDriver, pin hal.PWMPin, pulseWidthUS uint32) *PWMGenerator {
	return &PWMGenerator{
		base:   newBase(pwmMinFrequency, pwmMaxFrequency, pulseWidthUS),
		pin:    pin,
		driver: driver,
	}
}

// dutyCycle computes the PWM duty-cycle policy of §4.4 for the given frequency.
func (g *PWMGenerator) dutyCycle(hz uint32) uint32 {
	periodUS := uint32(1_000_000) / hz
	if periodUS == 0 {
		periodUS = 1
	}
	dutyE4 := (g.pulseWidthUS * 10000) / periodUS
	if dutyE4 < dutyFloorPctE4 {
		dutyE4 = dutyFloorPctE4
	}
	if dutyE4 > dutyCeilPctE4 {
		dutyE4 = dutyCeilPctE4
	}

	maxVal := g.driver.GetMaxValue()
	return uint32((uint64(maxVal) * uint64(dutyE4)) / 10000)
}

// Start begins pulse emission at the last frequency set via SetFrequency.
func (g *PWMGenerator) Start() error {
	if err := g.canStart(); err != nil {
		return err
	}

	periodTicks := hal.TimerFromUS(1_000_000 / g.frequency)
	if _, err := g.driver.ConfigureHardwarePWM(g.pin, periodTicks); err != nil {
		return err
	}
	if err := g.driver.SetDutyCycle(g.pin, hal.PWMValue(g.dutyCycle(g.frequency))); err != nil {
		return err
	}

	g.state = StateRunning
	g.scheduleNextPulse()
	return nil
}

// SetFrequency validates and stores the new frequency; if the generator is
// already running, the change is applied on the next pulse boundary rather
// than mid-pulse.
func (g *PWMGenerator) SetFrequency(hz uint32) error {
	if err := g.base.SetFrequency(hz); err != nil {
		return err
	}
	if g.state == StateRunning {
		if _, err := g.driver.ConfigureHardwarePWM(g.pin, hal.TimerFromUS(1_000_000/hz)); err != nil {
			return err
		}
		return g.driver.SetDutyCycle(g.pin, hal.PWMValue(g.dutyCycle(hz)))
	}
	return nil
}

// Stop is idempotent: it is a no-op in Idle and always leaves the output low.
func (g *PWMGenerator) Stop() {
	if g.state == StateIdle {
		return
	}
	_ = g.driver.DisablePWM(g.pin)
	g.state = StateIdle
}

// scheduleNextPulse arranges for onPulseTick to fire once per pulse period,
// standing in for the PWM peripheral's wrap interrupt so the step counter
// advances the same way the interrupt-timer variant's does.
func (g *PWMGenerator) scheduleNextPulse() {
	periodUS := uint32(1_000_000) / g.frequency
	g.timer = hal.Timer{
		WakeTime: hal.GetTime() + hal.TimerFromUS(periodUS),
		Handler:  g.onPulseTick,
	}
	hal.ScheduleTimer(&g.timer)
}

func (g *PWMGenerator) onPulseTick(*hal.Timer) uint8 {
	if g.state != StateRunning {
		return hal.SFDone
	}
	if g.onPulse() {
		g.Stop()
		return hal.SFDone
	}
	g.scheduleNextPulse()
	return hal.SFDone
}
