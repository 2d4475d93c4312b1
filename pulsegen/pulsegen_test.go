package pulsegen

import (
	"testing"
	"time"

	"axisfw/hal"
)

// fakeGPIO is a host-side GPIODriver used only by these tests; it records
// pin states so tests can assert on toggling without real hardware.
type fakeGPIO struct {
	state map[hal.GPIOPin]bool
}

func newFakeGPIO() *fakeGPIO { return &fakeGPIO{state: make(map[hal.GPIOPin]bool)} }

func (f *fakeGPIO) ConfigureOutput(pin hal.GPIOPin) error         { return nil }
func (f *fakeGPIO) ConfigureInputPullUp(pin hal.GPIOPin) error    { return nil }
func (f *fakeGPIO) ConfigureInputPullDown(pin hal.GPIOPin) error  { return nil }
func (f *fakeGPIO) SetPin(pin hal.GPIOPin, value bool) error {
	f.state[pin] = value
	return nil
}
func (f *fakeGPIO) GetPin(pin hal.GPIOPin) (bool, error) { return f.state[pin], nil }

// fakePWM is a host-side PWMDriver used only by these tests.
type fakePWM struct {
	maxValue    uint32
	periodTicks uint32
	duty        hal.PWMValue
	enabled     bool
}

func newFakePWM(maxValue uint32) *fakePWM { return &fakePWM{maxValue: maxValue} }

func (f *fakePWM) ConfigureHardwarePWM(pin hal.PWMPin, periodTicks uint32) (uint32, error) {
	f.periodTicks = periodTicks
	f.enabled = true
	return periodTicks, nil
}

func (f *fakePWM) SetDutyCycle(pin hal.PWMPin, value hal.PWMValue) error {
	f.duty = value
	return nil
}

func (f *fakePWM) GetMaxValue() uint32 { return f.maxValue }

func (f *fakePWM) DisablePWM(pin hal.PWMPin) error {
	f.enabled = false
	return nil
}

// runUntil polls hal.ProcessTimers against the host wall clock until cond
// reports true or the deadline passes, giving the scheduled pulse timers a
// chance to fire the way the firmware main loop would drive them.
func runUntil(t *testing.T, deadline time.Duration, cond func() bool) {
	t.Helper()
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		hal.ProcessTimers()
		if cond() {
			return
		}
		time.Sleep(50 * time.Microsecond)
	}
	t.Fatalf("condition not met within %v", deadline)
}

func TestPWMGeneratorRejectsStartWithoutInit(t *testing.T) {
	g := NewPWMGenerator(newFakePWM(1000), 0, 2)
	if err := g.SetFrequency(1000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if err := g.Start(); err != ErrNotInitialized {
		t.Fatalf("Start() = %v, want ErrNotInitialized", err)
	}
}

func TestPWMGeneratorRejectsStartWithoutFrequency(t *testing.T) {
	g := NewPWMGenerator(newFakePWM(1000), 0, 2)
	if err := g.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := g.Start(); err != ErrNoFrequencySet {
		t.Fatalf("Start() = %v, want ErrNoFrequencySet", err)
	}
}

func TestPWMGeneratorSetFrequencyRange(t *testing.T) {
	g := NewPWMGenerator(newFakePWM(1000), 0, 2)
	if err := g.SetFrequency(0); err != ErrFrequencyOutOfRange {
		t.Fatalf("SetFrequency(0) = %v, want ErrFrequencyOutOfRange", err)
	}
	if err := g.SetFrequency(pwmMaxFrequency + 1); err != ErrFrequencyOutOfRange {
		t.Fatalf("SetFrequency(max+1) = %v, want ErrFrequencyOutOfRange", err)
	}
	if err := g.SetFrequency(1); err != nil {
		t.Fatalf("SetFrequency(1) = %v, want nil", err)
	}
	if err := g.SetFrequency(pwmMaxFrequency); err != nil {
		t.Fatalf("SetFrequency(max) = %v, want nil", err)
	}
}

func TestPWMGeneratorStopIdempotentWhenIdle(t *testing.T) {
	g := NewPWMGenerator(newFakePWM(1000), 0, 2)
	_ = g.Init()
	g.Stop()
	g.Stop()
	if g.Running() {
		t.Fatalf("Stop() on idle generator should not start it")
	}
}

func TestPWMGeneratorDutyCyclePolicy(t *testing.T) {
	pwm := newFakePWM(1000)
	g := NewPWMGenerator(pwm, 0, 5)

	// At 100kHz, period is 10us; a fixed 5us pulse width would be 50%,
	// right at the ceiling.
	if got := g.dutyCycle(100_000); got != 500 {
		t.Fatalf("dutyCycle(100kHz) = %d, want 500 (50%% of max 1000)", got)
	}

	// At a low frequency the raw ratio falls under the floor and is clamped up.
	if got := g.dutyCycle(1); got != 1 {
		t.Fatalf("dutyCycle(1Hz) = %d, want 1 (0.1%% floor of max 1000)", got)
	}
}

func TestPWMGeneratorRunsToTargetSteps(t *testing.T) {
	pwm := newFakePWM(1000)
	g := NewPWMGenerator(pwm, 0, 2)
	_ = g.Init()
	_ = g.SetFrequency(2000) // 500us period, fast enough for a short test
	g.SetTargetSteps(3)

	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !pwm.enabled {
		t.Fatalf("Start() should configure hardware PWM")
	}

	runUntil(t, 2*time.Second, func() bool { return !g.Running() })

	if got := g.StepCount(); got < 3 {
		t.Fatalf("StepCount() = %d, want >= 3", got)
	}
	if pwm.enabled {
		t.Fatalf("generator should disable PWM once the target step count is reached")
	}
}

func TestTimerGeneratorRejectsStartWithoutInit(t *testing.T) {
	g := NewTimerGenerator(newFakeGPIO(), 0, 2)
	_ = g.SetFrequency(1000)
	if err := g.Start(); err != ErrNotInitialized {
		t.Fatalf("Start() = %v, want ErrNotInitialized", err)
	}
}

func TestTimerGeneratorSetFrequencyRange(t *testing.T) {
	g := NewTimerGenerator(newFakeGPIO(), 0, 2)
	if err := g.SetFrequency(0); err != ErrFrequencyOutOfRange {
		t.Fatalf("SetFrequency(0) = %v, want ErrFrequencyOutOfRange", err)
	}
	if err := g.SetFrequency(timerMaxFrequency + 1); err != ErrFrequencyOutOfRange {
		t.Fatalf("SetFrequency(max+1) = %v, want ErrFrequencyOutOfRange", err)
	}
	if err := g.SetFrequency(timerMaxFrequency); err != nil {
		t.Fatalf("SetFrequency(max) = %v, want nil", err)
	}
}

func TestTimerGeneratorStopIdempotentWhenIdle(t *testing.T) {
	g := NewTimerGenerator(newFakeGPIO(), 0, 2)
	_ = g.Init()
	g.Stop()
	if g.Running() {
		t.Fatalf("Stop() on idle generator should not start it")
	}
}

func TestTimerGeneratorRunsToTargetSteps(t *testing.T) {
	gpio := newFakeGPIO()
	g := NewTimerGenerator(gpio, 0, 50)
	_ = g.Init()
	_ = g.SetFrequency(1000) // 1ms period
	g.SetTargetSteps(3)

	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	runUntil(t, 2*time.Second, func() bool { return !g.Running() })

	if got := g.StepCount(); got < 3 {
		t.Fatalf("StepCount() = %d, want >= 3", got)
	}
	if gpio.state[0] {
		t.Fatalf("pin should be left low once stopped")
	}
}

func TestGeneratorResetStepCount(t *testing.T) {
	g := NewPWMGenerator(newFakePWM(1000), 0, 2)
	_ = g.Init()
	_ = g.SetFrequency(2000)
	g.SetTargetSteps(3)
	_ = g.Start()
	runUntil(t, 2*time.Second, func() bool { return !g.Running() })

	g.ResetStepCount()
	if g.StepCount() != 0 {
		t.Fatalf("ResetStepCount() should zero the counter")
	}
}
