package driver

import "axisfw/axiserr"

// Encoder is the closed-loop feedback capability (supplemental to §4.8):
// an absolute position sensor independent of the driver's own step
// counter, used to detect missed-step drift. This is a scaffold, not a
// full closed-loop controller — SPEC_FULL.md's parameter table reserves
// a PID gain block (§4.9) for a future correction loop that is not
// implemented here.
type Encoder interface {
	// Configure prepares the sensor for reads.
	Configure() error
	// CountsPerRev reports the sensor's native resolution.
	CountsPerRev() uint16
	// Position returns the current absolute reading, 0..CountsPerRev()-1.
	Position() (uint16, error)
}

// ClosedLoopDriver wraps a Driver with an Encoder and exposes the drift
// between the driver's own step-derived position and the encoder's
// absolute reading, in encoder counts. It never corrects the drift itself;
// a caller (host tooling or a future motion-controller extension) decides
// what to do with DriftCounts.
type ClosedLoopDriver struct {
	Driver
	encoder        Encoder
	stepsPerRev    uint16
	countsPerRev   uint16
}

// NewClosedLoopDriver pairs a Driver with an Encoder. stepsPerRev is the
// motor's full-step-times-microstepping count, used to convert the
// driver's step position into the encoder's count space for comparison.
func NewClosedLoopDriver(d Driver, e Encoder, stepsPerRev uint16) (*ClosedLoopDriver, error) {
	if stepsPerRev == 0 {
		return nil, axiserr.ErrOutOfRange
	}
	return &ClosedLoopDriver{Driver: d, encoder: e, stepsPerRev: stepsPerRev, countsPerRev: e.CountsPerRev()}, nil
}

// DriftCounts returns the signed difference, in encoder counts, between
// the driver's step-derived position and the encoder's absolute reading,
// wrapped into the encoder's native range.
func (c *ClosedLoopDriver) DriftCounts() (int32, error) {
	reading, err := c.encoder.Position()
	if err != nil {
		return 0, err
	}

	stepPos := c.Driver.Position()
	countsPerRev := int64(c.countsPerRev)
	stepsPerRev := int64(c.stepsPerRev)

	expected := (int64(stepPos) * countsPerRev / stepsPerRev) % countsPerRev
	if expected < 0 {
		expected += countsPerRev
	}

	drift := int64(reading) - expected
	half := countsPerRev / 2
	if drift > half {
		drift -= countsPerRev
	} else if drift < -half {
		drift += countsPerRev
	}
	return int32(drift), nil
}
