// Package trajectory implements the velocity-profile planners of §4.5/§4.6:
// a trapezoidal profile and a jerk-limited seven-segment S-curve profile.
// Both work entirely in fixed-point integer arithmetic (steps, steps/sec,
// steps/sec², steps/sec³, microseconds) with two plan-time exceptions off
// the per-tick hot path: math.Sqrt in scurve.go's reduced-profile search
// and in trapezoid.go's triangle peak-velocity solve.
package trajectory

import "axisfw/axiserr"

// Direction is the sign of a planned move's distance.
type Direction int8

const (
	Positive Direction = 1
	Negative Direction = -1
)

// Sample is a snapshot returned by Update, common to every profile so the
// motion controller can drive either one through the same call site. The
// driver remains position authority (see DESIGN.md's Open Question 2
// resolution); Position here is display-only telemetry.
type Sample struct {
	Phase        string
	ElapsedUS    uint32
	Position     int32
	Velocity     uint32
	Acceleration int32
	Done         bool
	Progress     float64
}

// Profile is the common planner contract the motion controller drives.
// Plan is intentionally not part of this interface since its parameter
// type differs between profiles; callers construct and plan a concrete
// *Trapezoid or *SCurve, then hold it as a Profile from Start onward.
type Profile interface {
	Start()
	Update(dtUS uint32) Sample
	Reset()
	IsComplete() bool
	CurrentVelocity() uint32
	CurrentPosition() int32
}

// usPerSecond is the microsecond-per-second scale factor used throughout
// both planners, matching the reference implementation's 1e6 fixed-point base.
const usPerSecond = 1_000_000

var errZeroRate = axiserr.ErrPlanRejected
