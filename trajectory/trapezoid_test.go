package trajectory

import "testing"

func planTrapezoid(t *testing.T, params TrapezoidParams) *Trapezoid {
	t.Helper()
	tr := &Trapezoid{}
	if err := tr.Plan(params); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return tr
}

func TestTrapezoidRejectsZeroRates(t *testing.T) {
	tr := &Trapezoid{}
	if err := tr.Plan(TrapezoidParams{Distance: 1000, MaxVelocity: 0, Acceleration: 1000}); err == nil {
		t.Fatalf("Plan should reject zero max velocity")
	}
	if err := tr.Plan(TrapezoidParams{Distance: 1000, MaxVelocity: 1000, Acceleration: 0}); err == nil {
		t.Fatalf("Plan should reject zero acceleration")
	}
}

func TestTrapezoidFullProfileWhenDistanceSufficient(t *testing.T) {
	// d_accel = d_decel = v^2/(2a) = 10000^2/(2*100000) = 500. Distance 2000 >> 1000.
	tr := planTrapezoid(t, TrapezoidParams{
		Distance:     2000,
		MaxVelocity:  10000,
		Acceleration: 100000,
	})
	timing := tr.Timing()
	if timing.IsTriangle {
		t.Fatalf("expected full trapezoid, got triangle")
	}
	if timing.PeakVelocity != 10000 {
		t.Fatalf("PeakVelocity = %d, want 10000", timing.PeakVelocity)
	}
}

func TestTrapezoidTriangleWhenDistanceShort(t *testing.T) {
	// d_accel+d_decel for v=10000,a=100000 is 1000; use distance 400 < 1000.
	tr := planTrapezoid(t, TrapezoidParams{
		Distance:     400,
		MaxVelocity:  10000,
		Acceleration: 100000,
	})
	timing := tr.Timing()
	if !timing.IsTriangle {
		t.Fatalf("expected triangle profile for short move")
	}
	if timing.PeakVelocity >= 10000 {
		t.Fatalf("PeakVelocity = %d, want < 10000 for a reduced triangle", timing.PeakVelocity)
	}
}

func TestTrapezoidDistanceConservation(t *testing.T) {
	cases := []TrapezoidParams{
		{Distance: 2000, MaxVelocity: 10000, Acceleration: 100000},
		{Distance: 400, MaxVelocity: 10000, Acceleration: 100000},
		{Distance: -2000, MaxVelocity: 10000, Acceleration: 100000},
	}
	for _, params := range cases {
		tr := planTrapezoid(t, params)
		timing := tr.Timing()
		want := params.Distance
		if want < 0 {
			want = -want
		}
		got := timing.AccelDistance + timing.CruiseDistance + timing.DecelDistance
		diff := got - want
		if diff < -1 || diff > 1 {
			t.Fatalf("distance conservation violated: accel+cruise+decel=%d, want %d (±1)", got, want)
		}
	}
}

func TestTrapezoidVelocityMonotonicPerPhase(t *testing.T) {
	tr := planTrapezoid(t, TrapezoidParams{Distance: 2000, MaxVelocity: 10000, Acceleration: 100000})
	tr.Start()

	var lastV uint32
	var lastPhase TrapezoidPhase
	for i := 0; i < 10000 && !tr.IsComplete(); i++ {
		sample := tr.Update(100)
		phase := tr.Phase()
		if phase == lastPhase {
			switch phase {
			case TrapAccel:
				if sample.Velocity < lastV {
					t.Fatalf("velocity decreased during Accel: %d -> %d", lastV, sample.Velocity)
				}
			case TrapCruise:
				if sample.Velocity != lastV {
					t.Fatalf("velocity changed during Cruise: %d -> %d", lastV, sample.Velocity)
				}
			case TrapDecel:
				if sample.Velocity > lastV {
					t.Fatalf("velocity increased during Decel: %d -> %d", lastV, sample.Velocity)
				}
			}
		}
		lastV = sample.Velocity
		lastPhase = phase
	}
	if !tr.IsComplete() {
		t.Fatalf("trajectory did not complete within iteration budget")
	}
}

func TestTrapezoidTerminalPositionMatchesDistanceWithSign(t *testing.T) {
	for _, distance := range []int32{2000, -2000} {
		tr := planTrapezoid(t, TrapezoidParams{Distance: distance, MaxVelocity: 10000, Acceleration: 100000})
		tr.Start()
		for i := 0; i < 10000 && !tr.IsComplete(); i++ {
			tr.Update(100)
		}
		if !tr.IsComplete() {
			t.Fatalf("trajectory for distance %d did not complete", distance)
		}
		if tr.CurrentPosition() != distance {
			t.Fatalf("CurrentPosition() = %d, want %d", tr.CurrentPosition(), distance)
		}
	}
}

func TestTrapezoidUpdateBeforeStartIsNoOp(t *testing.T) {
	tr := planTrapezoid(t, TrapezoidParams{Distance: 2000, MaxVelocity: 10000, Acceleration: 100000})
	sample := tr.Update(500)
	if sample.Velocity != 0 || sample.Position != 0 {
		t.Fatalf("Update before Start should be a no-op, got %+v", sample)
	}
}

func TestTrapezoidZeroDtIsSafe(t *testing.T) {
	tr := planTrapezoid(t, TrapezoidParams{Distance: 2000, MaxVelocity: 10000, Acceleration: 100000})
	tr.Start()
	before := tr.Update(0)
	after := tr.Update(0)
	if before.Velocity != after.Velocity || before.Position != after.Position {
		t.Fatalf("dt=0 updates should not change state")
	}
}

func TestTrapezoidVelocityAtMatchesExecution(t *testing.T) {
	tr := planTrapezoid(t, TrapezoidParams{Distance: 2000, MaxVelocity: 10000, Acceleration: 100000})
	timing := tr.Timing()

	tr.Start()
	const dt = 50
	var elapsed uint32
	for !tr.IsComplete() && elapsed < timing.TotalTimeUS {
		tr.Update(dt)
		elapsed += dt
		got := tr.CurrentVelocity()
		want := tr.VelocityAt(elapsed)
		diff := int64(got) - int64(want)
		if diff < -1 || diff > 1 {
			t.Fatalf("at t=%d: executed velocity %d, closed-form VelocityAt %d", elapsed, got, want)
		}
	}
}
