package trajectory

import "math"

// TrapezoidPhase is the trapezoidal planner's own phase enum (§4.5.2).
type TrapezoidPhase uint8

const (
	TrapIdle TrapezoidPhase = iota
	TrapAccel
	TrapCruise
	TrapDecel
	TrapComplete
)

func (p TrapezoidPhase) String() string {
	switch p {
	case TrapIdle:
		return "idle"
	case TrapAccel:
		return "accel"
	case TrapCruise:
		return "cruise"
	case TrapDecel:
		return "decel"
	case TrapComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// TrapezoidParams describes a single trapezoidal move. Deceleration of
// zero inherits Acceleration.
type TrapezoidParams struct {
	Distance      int32
	MaxVelocity   uint32
	Acceleration  uint32
	Deceleration  uint32
	StartVelocity uint32
	EndVelocity   uint32
}

// TrapezoidTiming is the precomputed schedule produced by Plan.
type TrapezoidTiming struct {
	AccelTimeUS  uint32
	CruiseTimeUS uint32
	DecelTimeUS  uint32
	TotalTimeUS  uint32

	AccelDistance  int32
	CruiseDistance int32
	DecelDistance  int32

	PeakVelocity uint32
	IsTriangle   bool
}

// Trapezoid is the trapezoidal (linear accel/decel) velocity profile
// planner of §4.5.2, ported from the reference TrapezoidalTrajectory.
type Trapezoid struct {
	params TrapezoidParams
	timing TrapezoidTiming
	phase  TrapezoidPhase

	elapsedUS  uint32
	position   int32
	velocity   uint32
	direction  Direction

	planned bool
	started bool
}

// Plan validates params and computes phase timing. It returns
// axiserr.ErrPlanRejected for a zero max velocity or acceleration,
// matching §4.5.1's rejection rule.
func (t *Trapezoid) Plan(params TrapezoidParams) error {
	if params.MaxVelocity == 0 || params.Acceleration == 0 {
		return errZeroRate
	}

	t.params = params
	if t.params.Deceleration == 0 {
		t.params.Deceleration = t.params.Acceleration
	}

	if t.params.Distance >= 0 {
		t.direction = Positive
	} else {
		t.direction = Negative
		t.params.Distance = -t.params.Distance
	}

	v := uint64(t.params.MaxVelocity)
	a := uint64(t.params.Acceleration)
	d := uint64(t.params.Deceleration)

	accelDist := (v * v) / (2 * a)
	decelDist := (v * v) / (2 * d)

	if accelDist+decelDist <= uint64(t.params.Distance) {
		t.computeTrapezoidal()
	} else {
		t.computeTriangular()
	}

	t.planned = true
	t.started = false
	t.phase = TrapIdle
	return nil
}

func (t *Trapezoid) computeTrapezoidal() {
	v := uint64(t.params.MaxVelocity)
	a := uint64(t.params.Acceleration)
	d := uint64(t.params.Deceleration)

	t.timing.AccelDistance = int32((v * v) / (2 * a))
	t.timing.AccelTimeUS = uint32((v * usPerSecond) / a)

	t.timing.DecelDistance = int32((v * v) / (2 * d))
	t.timing.DecelTimeUS = uint32((v * usPerSecond) / d)

	t.timing.CruiseDistance = t.params.Distance - t.timing.AccelDistance - t.timing.DecelDistance
	if v > 0 {
		t.timing.CruiseTimeUS = uint32((uint64(t.timing.CruiseDistance) * usPerSecond) / v)
	}

	t.timing.TotalTimeUS = t.timing.AccelTimeUS + t.timing.CruiseTimeUS + t.timing.DecelTimeUS
	t.timing.PeakVelocity = t.params.MaxVelocity
	t.timing.IsTriangle = false
}

func (t *Trapezoid) computeTriangular() {
	dist := uint64(t.params.Distance)
	a := uint64(t.params.Acceleration)
	d := uint64(t.params.Deceleration)

	vPeakSq := (2.0 * float64(dist) * float64(a) * float64(d)) / float64(a+d)
	vPeak := uint32(math.Sqrt(vPeakSq))
	if vPeak > t.params.MaxVelocity {
		vPeak = t.params.MaxVelocity
	}
	t.timing.PeakVelocity = vPeak

	v := uint64(vPeak)
	t.timing.AccelDistance = int32((v * v) / (2 * a))
	t.timing.AccelTimeUS = uint32((v * usPerSecond) / a)

	t.timing.DecelDistance = t.params.Distance - t.timing.AccelDistance
	t.timing.DecelTimeUS = uint32((v * usPerSecond) / d)

	t.timing.CruiseDistance = 0
	t.timing.CruiseTimeUS = 0

	t.timing.TotalTimeUS = t.timing.AccelTimeUS + t.timing.DecelTimeUS
	t.timing.IsTriangle = true
}

// Start resets execution state to the beginning of the planned move.
func (t *Trapezoid) Start() {
	if !t.planned {
		return
	}
	t.elapsedUS = 0
	t.position = 0
	t.velocity = t.params.StartVelocity
	t.phase = TrapAccel
	t.started = true
}

// Update advances the profile by dtUS and returns the resulting sample.
// It is a no-op before Start or after Complete, per §4.5.1.
func (t *Trapezoid) Update(dtUS uint32) Sample {
	if !t.started || t.phase == TrapIdle || t.phase == TrapComplete {
		return t.sample()
	}

	t.elapsedUS += dtUS
	switch t.phase {
	case TrapAccel:
		t.updateAccel(dtUS)
	case TrapCruise:
		t.updateCruise(dtUS)
	case TrapDecel:
		t.updateDecel(dtUS)
	}
	return t.sample()
}

func (t *Trapezoid) sample() Sample {
	progress := 1.0
	if t.params.Distance > 0 {
		progress = float64(t.position) / float64(t.params.Distance)
	}
	return Sample{
		Phase:     t.phase.String(),
		ElapsedUS: t.elapsedUS,
		Position:  t.position * int32(t.direction),
		Velocity:  t.velocity,
		Done:      t.phase == TrapComplete,
		Progress:  progress,
	}
}

func (t *Trapezoid) updateAccel(dtUS uint32) {
	deltaV := (uint64(t.params.Acceleration) * uint64(dtUS)) / usPerSecond
	t.velocity += uint32(deltaV)
	if t.velocity >= t.timing.PeakVelocity {
		t.velocity = t.timing.PeakVelocity
	}

	t.position += int32((uint64(t.velocity) * uint64(dtUS)) / usPerSecond)

	if t.elapsedUS >= t.timing.AccelTimeUS {
		if t.timing.IsTriangle {
			t.phase = TrapDecel
		} else {
			t.phase = TrapCruise
		}
	}
}

func (t *Trapezoid) updateCruise(dtUS uint32) {
	t.velocity = t.timing.PeakVelocity
	t.position += int32((uint64(t.velocity) * uint64(dtUS)) / usPerSecond)

	if t.elapsedUS >= t.timing.AccelTimeUS+t.timing.CruiseTimeUS {
		t.phase = TrapDecel
	}
}

func (t *Trapezoid) updateDecel(dtUS uint32) {
	deltaV := (uint64(t.params.Deceleration) * uint64(dtUS)) / usPerSecond
	if deltaV < uint64(t.velocity) {
		t.velocity -= uint32(deltaV)
	} else {
		t.velocity = t.params.EndVelocity
	}

	t.position += int32((uint64(t.velocity) * uint64(dtUS)) / usPerSecond)

	if t.position >= t.params.Distance || t.elapsedUS >= t.timing.TotalTimeUS {
		t.position = t.params.Distance
		t.velocity = t.params.EndVelocity
		t.phase = TrapComplete
	}
}

// Reset returns the planner to Idle, discarding the plan.
func (t *Trapezoid) Reset() {
	t.phase = TrapIdle
	t.elapsedUS = 0
	t.position = 0
	t.velocity = 0
	t.planned = false
	t.started = false
}

func (t *Trapezoid) Phase() TrapezoidPhase { return t.phase }
func (t *Trapezoid) Timing() TrapezoidTiming { return t.timing }
func (t *Trapezoid) IsComplete() bool { return t.phase == TrapComplete }
func (t *Trapezoid) CurrentVelocity() uint32 { return t.velocity }
func (t *Trapezoid) CurrentPosition() int32 { return t.position * int32(t.direction) }

// VelocityAt returns the closed-form velocity at timeUS from the start of
// the planned move, without advancing execution state. Used for
// look-ahead and the host preview tool.
func (t *Trapezoid) VelocityAt(timeUS uint32) uint32 {
	if !t.planned || timeUS == 0 {
		return t.params.StartVelocity
	}
	if timeUS >= t.timing.TotalTimeUS {
		return t.params.EndVelocity
	}
	if timeUS < t.timing.AccelTimeUS {
		return t.params.StartVelocity + uint32((uint64(t.params.Acceleration)*uint64(timeUS))/usPerSecond)
	}

	cruiseEnd := t.timing.AccelTimeUS + t.timing.CruiseTimeUS
	if timeUS < cruiseEnd {
		return t.timing.PeakVelocity
	}

	decelElapsed := timeUS - cruiseEnd
	decelAmount := uint32((uint64(t.params.Deceleration) * uint64(decelElapsed)) / usPerSecond)
	if decelAmount >= t.timing.PeakVelocity {
		return t.params.EndVelocity
	}
	return t.timing.PeakVelocity - decelAmount
}

// PositionAt returns the closed-form position at timeUS, by symbolic
// integration of the phase velocity equations rather than by simulated
// ticking.
func (t *Trapezoid) PositionAt(timeUS uint32) int32 {
	if !t.planned || timeUS == 0 {
		return 0
	}
	if timeUS >= t.timing.TotalTimeUS {
		return t.params.Distance * int32(t.direction)
	}

	if timeUS < t.timing.AccelTimeUS {
		tt := uint64(timeUS)
		a := uint64(t.params.Acceleration)
		v0 := uint64(t.params.StartVelocity)
		pos := (v0*tt)/usPerSecond + (a*tt*tt)/(2*usPerSecond*usPerSecond)
		return int32(pos) * int32(t.direction)
	}

	cruiseEnd := t.timing.AccelTimeUS + t.timing.CruiseTimeUS
	if timeUS < cruiseEnd {
		cruiseTime := uint64(timeUS - t.timing.AccelTimeUS)
		cruisePos := (uint64(t.timing.PeakVelocity) * cruiseTime) / usPerSecond
		return (t.timing.AccelDistance + int32(cruisePos)) * int32(t.direction)
	}

	basePos := t.timing.AccelDistance + t.timing.CruiseDistance
	decelTime := uint64(timeUS - cruiseEnd)
	v0 := uint64(t.timing.PeakVelocity)
	d := uint64(t.params.Deceleration)

	decelPos := (v0 * decelTime) / usPerSecond
	decelLoss := (d * decelTime * decelTime) / (2 * usPerSecond * usPerSecond)
	return (basePos + int32(decelPos-decelLoss)) * int32(t.direction)
}
