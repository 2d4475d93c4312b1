package pulsegen

import "sync/atomic"

// base holds the state and counters shared by every Generator variant:
// initialization/frequency bookkeeping, the ISR-safe step counter and
// target-step count (§9's "coroutines/ISRs" note — onPulse, called from the
// timer-ISR pulse path, touches only these two, and both are atomic cells),
// and the target-steps auto-stop policy. The stopFlag cell is declared but
// no variant reads or writes it. Concrete variants embed base and supply
// their own Start/Stop pulse-cadence mechanism on top of it.
type base struct {
	minFrequency uint32
	maxFrequency uint32
	pulseWidthUS uint32

	initialized bool
	frequency   uint32
	state       State

	stepCount   atomic.Uint32
	targetSteps atomic.Uint32
	stopFlag    atomic.Bool
}

func newBase(minFreq, maxFreq, pulseWidthUS uint32) base {
	return base{minFrequency: minFreq, maxFrequency: maxFreq, pulseWidthUS: pulseWidthUS}
}

func (b *base) Init() error {
	b.initialized = true
	b.state = StateIdle
	return nil
}

func (b *base) MinFrequency() uint32 { return b.minFrequency }
func (b *base) MaxFrequency() uint32 { return b.maxFrequency }

func (b *base) SetFrequency(hz uint32) error {
	if hz == 0 || hz > b.maxFrequency {
		return ErrFrequencyOutOfRange
	}
	b.frequency = hz
	return nil
}

func (b *base) Running() bool { return b.state == StateRunning }

func (b *base) State() State { return b.state }

func (b *base) StepCount() uint32 { return b.stepCount.Load() }

func (b *base) ResetStepCount() { b.stepCount.Store(0) }

func (b *base) SetTargetSteps(n uint32) { b.targetSteps.Store(n) }

// canStart validates the preconditions shared by every variant's Start: the
// generator must be initialized and have a frequency set.
func (b *base) canStart() error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.frequency == 0 {
		return ErrNoFrequencySet
	}
	return nil
}

// onPulse records one emitted pulse and reports whether the generator
// should now auto-stop because it reached its target step count. Safe to
// call from ISR context.
func (b *base) onPulse() (shouldStop bool) {
	count := b.stepCount.Add(1)
	target := b.targetSteps.Load()
	return target > 0 && count >= target
}
