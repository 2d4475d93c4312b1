package driver

import "time"

// SimDriver is a host-buildable Driver used by every test in this
// repository and by the host-simulation firmware build. It tracks
// enable/direction/position/fault state exactly like a real step/dir
// driver would, without touching any GPIO.
type SimDriver struct {
	cfg       Config
	state     State
	direction Direction
	position  int32
	faultCode uint8

	// sleep stands in for the pulse and setup delays a real driver
	// blocks on; tests override it to a no-op so StepMultiple runs instantly.
	sleep func(time.Duration)
}

// NewSimDriver constructs a simulated driver, starting disabled with
// direction Forward and position zero, per the reference driver's reset state.
func NewSimDriver(cfg Config) *SimDriver {
	return &SimDriver{
		cfg:   cfg,
		state: StateDisabled,
		sleep: time.Sleep,
	}
}

func (d *SimDriver) Enable() error {
	if d.state == StateFault {
		return errEnableFailed
	}
	if d.cfg.Timing.EnableDelayMS > 0 {
		d.sleep(time.Duration(d.cfg.Timing.EnableDelayMS) * time.Millisecond)
	}
	d.state = StateEnabled
	return nil
}

func (d *SimDriver) Disable() {
	d.state = StateDisabled
}

func (d *SimDriver) IsEnabled() bool { return d.state == StateEnabled }

func (d *SimDriver) State() State { return d.state }

func (d *SimDriver) SetDirection(dir Direction) {
	if d.direction == dir {
		return
	}
	d.direction = dir
	if d.cfg.Timing.DirSetupUS > 0 {
		d.sleep(time.Duration(d.cfg.Timing.DirSetupUS) * time.Microsecond)
	}
}

func (d *SimDriver) Direction() Direction { return d.direction }

func (d *SimDriver) Step() error {
	if d.state != StateEnabled {
		return errNotEnabled
	}
	if d.cfg.Timing.StepPulseUS > 0 {
		d.sleep(time.Duration(d.cfg.Timing.StepPulseUS) * time.Microsecond)
	}
	if d.direction == Forward {
		d.position++
	} else {
		d.position--
	}
	return nil
}

// StepMultiple generates count steps at stepsPerSecond, stopping early if
// the driver becomes disabled or faulted mid-run, matching the reference
// driver's early-exit-on-disable behavior.
func (d *SimDriver) StepMultiple(count uint32, stepsPerSecond uint32) (uint32, error) {
	if d.state != StateEnabled || count == 0 || stepsPerSecond == 0 {
		return 0, nil
	}

	stepDelay := time.Duration(1_000_000/stepsPerSecond) * time.Microsecond
	minDelay := 2 * time.Duration(d.cfg.Timing.StepPulseUS) * time.Microsecond
	if stepDelay < minDelay {
		stepDelay = minDelay
	}

	var done uint32
	for i := uint32(0); i < count; i++ {
		if err := d.Step(); err != nil {
			break
		}
		done++
		if i < count-1 {
			gap := stepDelay - time.Duration(d.cfg.Timing.StepPulseUS)*time.Microsecond
			if gap > 0 {
				d.sleep(gap)
			}
		}
	}
	return done, nil
}

func (d *SimDriver) Position() int32 { return d.position }

func (d *SimDriver) SetPosition(position int32) { d.position = position }

func (d *SimDriver) IsFault() bool { return d.state == StateFault }

// Fault forces the driver into the Fault state, disabling outputs. Tests
// use this to exercise the motion controller's fault-latching path.
func (d *SimDriver) Fault(code uint8) {
	d.state = StateFault
	d.faultCode = code
}

func (d *SimDriver) ClearFault() error {
	if d.state != StateFault {
		return nil
	}
	d.state = StateDisabled
	d.faultCode = 0
	return nil
}

func (d *SimDriver) FaultCode() uint8 { return d.faultCode }
