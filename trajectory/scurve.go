package trajectory

import "math"

// SCurvePhase is the seven-segment planner's phase enum (§4.6).
type SCurvePhase uint8

const (
	SCurveIdle SCurvePhase = iota
	SCurveJerkAccelRise
	SCurveConstAccel
	SCurveJerkAccelFall
	SCurveCruise
	SCurveJerkDecelRise
	SCurveConstDecel
	SCurveJerkDecelFall
	SCurveComplete
)

func (p SCurvePhase) String() string {
	switch p {
	case SCurveIdle:
		return "idle"
	case SCurveJerkAccelRise:
		return "jerk_accel_rise"
	case SCurveConstAccel:
		return "const_accel"
	case SCurveJerkAccelFall:
		return "jerk_accel_fall"
	case SCurveCruise:
		return "cruise"
	case SCurveJerkDecelRise:
		return "jerk_decel_rise"
	case SCurveConstDecel:
		return "const_decel"
	case SCurveJerkDecelFall:
		return "jerk_decel_fall"
	case SCurveComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// SCurveParams describes a single jerk-limited move.
type SCurveParams struct {
	Distance        int32
	MaxVelocity     uint32
	MaxAcceleration uint32
	MaxJerk         uint32
}

// SCurveTiming is the precomputed seven-segment schedule produced by Plan.
type SCurveTiming struct {
	JerkAccelUS  uint32
	ConstAccelUS uint32
	CruiseUS     uint32
	JerkDecelUS  uint32
	ConstDecelUS uint32
	TotalTimeUS  uint32

	VAchieved uint32
	AAchieved uint32
	IsReduced bool
}

// SCurve is the seven-segment jerk-limited velocity profile planner of
// §4.6, ported from the reference SCurveTrajectory.
type SCurve struct {
	params SCurveParams
	timing SCurveTiming
	phase  SCurvePhase

	elapsedUS      uint32
	phaseElapsedUS uint32
	position       int32
	velocity       uint32
	acceleration   int32
	direction      Direction

	planned bool
	started bool

	// cumulative phase boundary times
	tEndJ1, tEndA, tEndJ2, tEndC, tEndJ3, tEndD uint32
}

// Plan validates params and computes the seven-segment schedule,
// choosing the full or reduced profile per §4.6.
func (s *SCurve) Plan(params SCurveParams) error {
	if params.MaxVelocity == 0 || params.MaxAcceleration == 0 || params.MaxJerk == 0 {
		return errZeroRate
	}

	s.params = params
	if s.params.Distance >= 0 {
		s.direction = Positive
	} else {
		s.direction = Negative
		s.params.Distance = -s.params.Distance
	}

	j := uint64(s.params.MaxJerk)
	a := uint64(s.params.MaxAcceleration)
	v := uint64(s.params.MaxVelocity)
	vJerk := (a * a) / (2 * j)

	if 2*vJerk >= v {
		s.computeReducedProfile()
	} else {
		s.computeFullProfile()
	}

	s.tEndJ1 = s.timing.JerkAccelUS
	s.tEndA = s.tEndJ1 + s.timing.ConstAccelUS
	s.tEndJ2 = s.tEndA + s.timing.JerkAccelUS
	s.tEndC = s.tEndJ2 + s.timing.CruiseUS
	s.tEndJ3 = s.tEndC + s.timing.JerkDecelUS
	s.tEndD = s.tEndJ3 + s.timing.ConstDecelUS

	s.planned = true
	s.started = false
	s.phase = SCurveIdle
	return nil
}

func (s *SCurve) computeFullProfile() {
	j := uint64(s.params.MaxJerk)
	a := uint64(s.params.MaxAcceleration)
	v := uint64(s.params.MaxVelocity)

	s.timing.JerkAccelUS = uint32((a * usPerSecond) / j)
	s.timing.JerkDecelUS = s.timing.JerkAccelUS

	vJerk := (a * a) / (2 * j)
	vConstAccel := v - 2*vJerk

	s.timing.ConstAccelUS = uint32((vConstAccel * usPerSecond) / a)
	s.timing.ConstDecelUS = s.timing.ConstAccelUS

	tJ := uint64(s.timing.JerkAccelUS)
	tA := uint64(s.timing.ConstAccelUS)

	dJ1 := (j * tJ * tJ * tJ) / (6 * usPerSecond * usPerSecond * usPerSecond)
	vEndJ1 := (j * tJ * tJ) / (2 * usPerSecond * usPerSecond)
	dA := (vEndJ1*tA)/usPerSecond + (a*tA*tA)/(2*usPerSecond*usPerSecond)
	vEndA := vEndJ1 + (a*tA)/usPerSecond
	dJ2 := (vEndA*tJ)/usPerSecond + (a*tJ*tJ)/(2*usPerSecond*usPerSecond) -
		(j*tJ*tJ*tJ)/(6*usPerSecond*usPerSecond*usPerSecond)

	totalAccelDist := dJ1 + dA + dJ2
	totalDecelDist := totalAccelDist

	cruiseDist := int64(s.params.Distance) - int64(totalAccelDist+totalDecelDist)
	if cruiseDist < 0 {
		s.computeReducedProfile()
		return
	}

	s.timing.CruiseUS = uint32((uint64(cruiseDist) * usPerSecond) / v)
	s.timing.VAchieved = uint32(v)
	s.timing.AAchieved = uint32(a)
	s.timing.IsReduced = false

	s.timing.TotalTimeUS = 2*s.timing.JerkAccelUS + s.timing.ConstAccelUS +
		s.timing.CruiseUS +
		2*s.timing.JerkDecelUS + s.timing.ConstDecelUS
}

// computeReducedProfile handles short moves that cannot reach v_max: a
// binary search over achievable peak velocity, per §4.6 case 2. Its
// math.Sqrt calls (at most one per search step inside
// reducedProfileDistance, at most 32 steps, plus one final evaluation) run
// entirely on the plan path, never per motion tick; trapezoid.go's
// triangle solve holds the only other sqrt call.
func (s *SCurve) computeReducedProfile() {
	j := uint64(s.params.MaxJerk)
	a := uint64(s.params.MaxAcceleration)
	dist := uint64(s.params.Distance)

	vLow := uint32(0)
	vHigh := s.params.MaxVelocity
	vAchieved := uint32(0)

	for iter := 0; iter < 32; iter++ {
		vTry := (vLow + vHigh) / 2
		if vTry == 0 {
			break
		}

		total := reducedProfileDistance(j, a, uint64(vTry))
		if total <= dist {
			vAchieved = vTry
			vLow = vTry + 1
		} else {
			if vHigh == 0 {
				break
			}
			vHigh = vTry - 1
		}
	}

	if vAchieved == 0 {
		vAchieved = 100
	}

	vJerk := (a * a) / (2 * j)
	var tJ uint64
	if uint64(vAchieved) <= 2*vJerk {
		tJs := math.Sqrt(float64(vAchieved) / float64(j))
		tJ = uint64(tJs * usPerSecond)
		s.timing.ConstAccelUS = 0
		s.timing.ConstDecelUS = 0
		s.timing.AAchieved = uint32((j * tJ) / usPerSecond)
	} else {
		tJ = (a * usPerSecond) / j
		vConst := uint64(vAchieved) - 2*vJerk
		s.timing.ConstAccelUS = uint32((vConst * usPerSecond) / a)
		s.timing.ConstDecelUS = s.timing.ConstAccelUS
		s.timing.AAchieved = uint32(a)
	}

	s.timing.JerkAccelUS = uint32(tJ)
	s.timing.JerkDecelUS = s.timing.JerkAccelUS
	s.timing.CruiseUS = 0
	s.timing.VAchieved = vAchieved
	s.timing.IsReduced = true

	s.timing.TotalTimeUS = 2*s.timing.JerkAccelUS + s.timing.ConstAccelUS +
		2*s.timing.JerkDecelUS + s.timing.ConstDecelUS
}

// reducedProfileDistance computes the total accel+decel distance covered
// by a candidate peak velocity vTry, used by the binary search above.
func reducedProfileDistance(j, a, vTry uint64) uint64 {
	tJ := (a * usPerSecond) / j
	vJerk := (a * a) / (2 * j)

	if vTry <= 2*vJerk {
		tJs := math.Sqrt(float64(vTry) / float64(j))
		tJ = uint64(tJs * usPerSecond)
		vJerk = vTry / 2
	}

	vConst := uint64(0)
	if vTry > 2*vJerk {
		vConst = vTry - 2*vJerk
	}
	tA := uint64(0)
	if a > 0 && vConst > 0 {
		tA = (vConst * usPerSecond) / a
	}

	dJ1 := (j * tJ * tJ * tJ) / (6 * usPerSecond * usPerSecond * usPerSecond)
	vEndJ1 := (j * tJ * tJ) / (2 * usPerSecond * usPerSecond)
	dA := (vEndJ1*tA)/usPerSecond + (a*tA*tA)/(2*usPerSecond*usPerSecond)
	vEndA := vEndJ1 + (a*tA)/usPerSecond
	dJ2 := (vEndA * tJ) / usPerSecond

	return 2 * (dJ1 + dA + dJ2)
}

// Start resets execution state to the beginning of the planned move.
func (s *SCurve) Start() {
	if !s.planned {
		return
	}
	s.elapsedUS = 0
	s.phaseElapsedUS = 0
	s.position = 0
	s.velocity = 0
	s.acceleration = 0
	s.started = true
	s.phase = SCurveJerkAccelRise
}

// Update advances the profile by dtUS and returns the resulting sample.
func (s *SCurve) Update(dtUS uint32) Sample {
	if !s.started || s.phase == SCurveIdle || s.phase == SCurveComplete {
		return s.sample()
	}

	s.elapsedUS += dtUS
	s.phaseElapsedUS += dtUS
	s.checkPhaseTransition()

	jerk := int32(s.params.MaxJerk)
	switch s.phase {
	case SCurveJerkAccelRise:
		s.updateJerkUp(dtUS, jerk)
	case SCurveConstAccel:
		s.updateConstAccel(dtUS)
	case SCurveJerkAccelFall:
		s.updateJerkDown(dtUS, jerk)
	case SCurveCruise:
		s.updateCruise(dtUS)
	case SCurveJerkDecelRise:
		s.updateJerkDown(dtUS, jerk)
	case SCurveConstDecel:
		s.updateConstDecel(dtUS)
	case SCurveJerkDecelFall:
		s.updateJerkUp(dtUS, jerk)
	}

	return s.sample()
}

func (s *SCurve) sample() Sample {
	progress := 1.0
	if s.timing.TotalTimeUS > 0 {
		progress = float64(s.elapsedUS) / float64(s.timing.TotalTimeUS)
		if progress > 1.0 {
			progress = 1.0
		}
	}
	return Sample{
		Phase:        s.phase.String(),
		ElapsedUS:    s.elapsedUS,
		Position:     s.position * int32(s.direction),
		Velocity:     s.velocity,
		Acceleration: s.acceleration,
		Done:         s.phase == SCurveComplete,
		Progress:     progress,
	}
}

func (s *SCurve) checkPhaseTransition() {
	switch s.phase {
	case SCurveJerkAccelRise:
		if s.elapsedUS >= s.tEndJ1 {
			if s.timing.ConstAccelUS > 0 {
				s.phase = SCurveConstAccel
			} else {
				s.phase = SCurveJerkAccelFall
			}
			s.phaseElapsedUS = 0
			s.acceleration = int32(s.timing.AAchieved)
		}
	case SCurveConstAccel:
		if s.elapsedUS >= s.tEndA {
			s.phase = SCurveJerkAccelFall
			s.phaseElapsedUS = 0
		}
	case SCurveJerkAccelFall:
		if s.elapsedUS >= s.tEndJ2 {
			if s.timing.CruiseUS > 0 {
				s.phase = SCurveCruise
			} else {
				s.phase = SCurveJerkDecelRise
			}
			s.phaseElapsedUS = 0
			s.acceleration = 0
			s.velocity = s.timing.VAchieved
		}
	case SCurveCruise:
		if s.elapsedUS >= s.tEndC {
			s.phase = SCurveJerkDecelRise
			s.phaseElapsedUS = 0
		}
	case SCurveJerkDecelRise:
		if s.elapsedUS >= s.tEndJ3 {
			if s.timing.ConstDecelUS > 0 {
				s.phase = SCurveConstDecel
			} else {
				s.phase = SCurveJerkDecelFall
			}
			s.phaseElapsedUS = 0
			s.acceleration = -int32(s.timing.AAchieved)
		}
	case SCurveConstDecel:
		if s.elapsedUS >= s.tEndD {
			s.phase = SCurveJerkDecelFall
			s.phaseElapsedUS = 0
		}
	case SCurveJerkDecelFall:
		if s.elapsedUS >= s.timing.TotalTimeUS {
			s.phase = SCurveComplete
			s.velocity = 0
			s.acceleration = 0
			s.position = s.params.Distance
		}
	}
}

func (s *SCurve) updateJerkUp(dtUS uint32, jerk int32) {
	da := (int64(jerk) * int64(dtUS)) / usPerSecond
	s.acceleration += int32(da)

	dv := (int64(s.acceleration) * int64(dtUS)) / usPerSecond
	s.velocity = clampVelocity(s.velocity, dv)

	dp := (int64(s.velocity) * int64(dtUS)) / usPerSecond
	s.position += int32(dp)
}

func (s *SCurve) updateJerkDown(dtUS uint32, jerk int32) {
	da := (int64(jerk) * int64(dtUS)) / usPerSecond
	s.acceleration -= int32(da)

	dv := (int64(s.acceleration) * int64(dtUS)) / usPerSecond
	s.velocity = clampVelocity(s.velocity, dv)

	dp := (int64(s.velocity) * int64(dtUS)) / usPerSecond
	s.position += int32(dp)
}

func (s *SCurve) updateConstAccel(dtUS uint32) {
	dv := (int64(s.acceleration) * int64(dtUS)) / usPerSecond
	s.velocity = clampVelocity(s.velocity, dv)

	dp := (int64(s.velocity) * int64(dtUS)) / usPerSecond
	s.position += int32(dp)
}

func (s *SCurve) updateCruise(dtUS uint32) {
	dp := (int64(s.velocity) * int64(dtUS)) / usPerSecond
	s.position += int32(dp)
}

func (s *SCurve) updateConstDecel(dtUS uint32) {
	dv := (int64(s.acceleration) * int64(dtUS)) / usPerSecond
	s.velocity = clampVelocity(s.velocity, dv)

	dp := (int64(s.velocity) * int64(dtUS)) / usPerSecond
	s.position += int32(dp)
}

// clampVelocity applies a signed delta to an unsigned velocity, floored at
// zero, matching the reference implementation's guard against underflow
// when a negative acceleration would otherwise wrap the unsigned counter.
func clampVelocity(v uint32, dv int64) uint32 {
	if dv < 0 && -dv > int64(v) {
		return 0
	}
	return uint32(int64(v) + dv)
}

// Reset returns the planner to Idle, discarding the plan.
func (s *SCurve) Reset() {
	s.phase = SCurveIdle
	s.elapsedUS = 0
	s.phaseElapsedUS = 0
	s.position = 0
	s.velocity = 0
	s.acceleration = 0
	s.planned = false
	s.started = false
}

func (s *SCurve) Phase() SCurvePhase          { return s.phase }
func (s *SCurve) Timing() SCurveTiming        { return s.timing }
func (s *SCurve) IsComplete() bool            { return s.phase == SCurveComplete }
func (s *SCurve) CurrentVelocity() uint32     { return s.velocity }
func (s *SCurve) CurrentPosition() int32      { return s.position * int32(s.direction) }
func (s *SCurve) CurrentAcceleration() int32  { return s.acceleration }
