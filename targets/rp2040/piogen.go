//go:build rp2040

package main

import (
	"time"

	"machine"

	pio "github.com/tinygo-org/pio/rp2040-pio"
	"github.com/tinygo-org/pio/rp2040-pio/piolib"

	"axisfw/pulsegen"
)

// pioMaxFrequency matches the PWM variant's cap (§4.4): the PIO variant
// exists to give the state-machine assembler dependency a concrete home,
// not to push the frequency ceiling higher.
const pioMaxFrequency = 500_000
const pioMinFrequency = 1

// PIOGenerator is the PIO-backed bonus pulse-generator variant: once
// started, its state machine issues pulses autonomously from hardware,
// unlike TimerGenerator's per-edge interrupt round trip. It wraps
// piolib.Pulsar, which already implements the square-wave-with-a-count PIO
// program this needs.
type PIOGenerator struct {
	pulsar *piolib.Pulsar
	sm     pio.StateMachine
	pin    machine.Pin

	initialized bool
	frequency   uint32
	state       pulsegen.State
	targetSteps uint32
}

// NewPIOGenerator claims a PIO program slot on sm to drive pin. The state
// machine must already belong to the caller (mirrors piolib.NewPulsar's
// own contract).
func NewPIOGenerator(sm pio.StateMachine, pin machine.Pin) *PIOGenerator {
	return &PIOGenerator{sm: sm, pin: pin}
}

func (g *PIOGenerator) Init() error {
	pulsar, err := piolib.NewPulsar(g.sm, g.pin)
	if err != nil {
		return err
	}
	g.pulsar = pulsar
	g.initialized = true
	g.state = pulsegen.StateIdle
	return nil
}

func (g *PIOGenerator) SetFrequency(hz uint32) error {
	if hz == 0 || hz > pioMaxFrequency {
		return pulsegen.ErrFrequencyOutOfRange
	}
	g.frequency = hz
	return nil
}

func (g *PIOGenerator) Start() error {
	if !g.initialized {
		return pulsegen.ErrNotInitialized
	}
	if g.frequency == 0 {
		return pulsegen.ErrNoFrequencySet
	}
	if err := g.pulsar.SetPeriod(time.Second / time.Duration(g.frequency)); err != nil {
		return err
	}

	count := g.targetSteps
	if count == 0 {
		count = ^uint32(0)
	}
	g.pulsar.Start(count)
	g.state = pulsegen.StateRunning
	return nil
}

func (g *PIOGenerator) Stop() {
	if g.state != pulsegen.StateRunning {
		return
	}
	g.pulsar.Stop()
	g.state = pulsegen.StateIdle
}

func (g *PIOGenerator) Running() bool         { return g.state == pulsegen.StateRunning }
func (g *PIOGenerator) State() pulsegen.State { return g.state }

// StepCount is not tracked here: the PIO state machine counts pulses in
// its own hardware FIFO countdown, which this driver has no cheap way to
// sample back without adding a second program slot. ResetStepCount is a
// no-op; SetTargetSteps still configures the auto-stop count Start consumes.
func (g *PIOGenerator) StepCount() uint32       { return 0 }
func (g *PIOGenerator) ResetStepCount()         {}
func (g *PIOGenerator) SetTargetSteps(n uint32) { g.targetSteps = n }
func (g *PIOGenerator) MinFrequency() uint32    { return pioMinFrequency }
func (g *PIOGenerator) MaxFrequency() uint32    { return pioMaxFrequency }
