// Package pulsegen implements the pulse-generator capability (§4.4): a
// hardware-backed source of step pulses at a commanded frequency, with a
// monotone pulse counter and optional auto-stop at a target count.
package pulsegen

import "errors"

// State is the pulse generator's own lifecycle, distinct from the axis
// state machine in package motion.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Generator is the pulse-generator capability of §4.4. Two concrete
// variants exist: a PWM-backed generator capped at 500kHz and an
// interrupt-timer-backed generator capped at 50kHz; both honor this
// contract identically.
type Generator interface {
	Init() error
	Start() error
	Stop()
	SetFrequency(hz uint32) error
	Running() bool
	State() State
	StepCount() uint32
	ResetStepCount()
	SetTargetSteps(n uint32)
	MinFrequency() uint32
	MaxFrequency() uint32
}

var (
	// ErrNotInitialized is returned by Start when Init was never called.
	ErrNotInitialized = errors.New("pulsegen: not initialized")
	// ErrNoFrequencySet is returned by Start when no frequency has been set yet.
	ErrNoFrequencySet = errors.New("pulsegen: no frequency set")
	// ErrFrequencyOutOfRange is returned by SetFrequency for 0 or > MaxFrequency.
	ErrFrequencyOutOfRange = errors.New("pulsegen: frequency out of range")
)
