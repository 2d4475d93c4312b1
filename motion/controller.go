// Package motion implements the axis state machine of §4.7: the central
// orchestrator that turns move/velocity commands into a driver direction,
// a pulse generator frequency, and a sequence of state transitions.
package motion

import (
	"sync"

	"axisfw/axiserr"
	"axisfw/driver"
	"axisfw/pulsegen"
	"axisfw/trajectory"
)

// State is the axis's own operational state, distinct from pulsegen.State
// (the pulse generator's lifecycle) and driver.State (enabled/disabled/fault).
type State uint8

const (
	StateIdle State = iota
	StateAccelerating
	StateCruising
	StateDecelerating
	StateHolding
	StateFault
	StateHoming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccelerating:
		return "accelerating"
	case StateCruising:
		return "cruising"
	case StateDecelerating:
		return "decelerating"
	case StateHolding:
		return "holding"
	case StateFault:
		return "fault"
	case StateHoming:
		return "homing"
	default:
		return "unknown"
	}
}

// MoveType selects how Params.TargetPosition is interpreted.
type MoveType uint8

const (
	Absolute MoveType = iota
	Relative
	Velocity
)

// ProfileKind selects which trajectory planner backs a positional move.
type ProfileKind uint8

const (
	Trapezoidal ProfileKind = iota
	SCurve
)

// Params describes a single move or velocity command.
type Params struct {
	TargetPosition int32
	MaxVelocity    uint32
	Acceleration   uint32
	Deceleration   uint32 // 0 inherits Acceleration
	Jerk           uint32 // 0 inherits Config.DefaultJerk, S-curve only
	Profile        ProfileKind
	MoveType       MoveType
}

// Config holds the axis's tunable defaults, mirrored from a compile-time
// record rather than global mutable state (§9's "Global mutable state"
// note): every Controller receives its own Config by value.
type Config struct {
	DefaultVelocity     uint32
	DefaultAcceleration uint32
	DefaultJerk         uint32
	MinVelocity         uint32
	PositionTolerance   uint32
	EnableOnMotion      bool
	DefaultProfile      ProfileKind
}

// DefaultConfig returns the compile-time default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultVelocity:     10000,
		DefaultAcceleration: 50000,
		DefaultJerk:         500000,
		MinVelocity:         100,
		PositionTolerance:   1,
		EnableOnMotion:      true,
		DefaultProfile:      Trapezoidal,
	}
}

const usPerSecond = 1_000_000

// HomeSwitch is the stub limit-switch capability the homing scaffold
// polls. No implementation ships in this repository; the tests supply a fake.
type HomeSwitch interface {
	Tripped() bool
}

// Status is a point-in-time snapshot of the axis, mirroring the reference
// implementation's MotionStatus.
type Status struct {
	State           State
	CurrentPosition int32
	TargetPosition  int32
	CurrentVelocity uint32
	DistanceToGo    int32
	InMotion        bool
	AtTarget        bool
	PlannedPosition int32
}

var (
	errHardwareMissing = axiserr.ErrHardwareMissing
	errBusy            = axiserr.ErrBusy
)

// Controller is the single-axis motion state machine of §4.7. The driver
// remains position authority (Open Question 2): the tick loop advances the
// simulated driver's step counter by the number of pulses the commanded
// velocity implies over dt, then reads position back from the driver
// rather than trusting its own integration. A parallel trajectory.Profile
// is planned purely for PlannedPosition telemetry and never feeds back
// into the state machine.
//
// A Controller is shared between the motion tick task and the
// communication task that dispatches host commands onto it (§5). mu is
// held for the duration of each exported call — never across a blocking
// call or a planner update — matching §5's "protected by a mutex held
// only for the duration of a copy" rule. Exported methods acquire mu and
// delegate to an unexported, lock-free counterpart; unexported methods
// call only other unexported methods, never back through an exported one,
// so the mutex is never reentered.
type Controller struct {
	mu sync.Mutex

	driver     driver.Driver
	generator  pulsegen.Generator
	homeSwitch HomeSwitch
	config     Config

	state           State
	direction       driver.Direction
	currentPosition int32
	targetPosition  int32
	currentVelocity uint32
	targetVelocity  uint32
	enabled         bool

	activeParams    Params
	plan            trajectory.Profile
	moveStartPos    int32
	plannedPosition int32
}

// NewController constructs a Controller with the given driver and pulse
// generator capabilities, either of which may be nil (see IsHardwareAttached).
func NewController(d driver.Driver, gen pulsegen.Generator, config Config) *Controller {
	return &Controller{
		driver:    d,
		generator: gen,
		config:    config,
		state:     StateIdle,
	}
}

// AttachHomeSwitch wires the limit-switch capability used by Home.
func (c *Controller) AttachHomeSwitch(hs HomeSwitch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.homeSwitch = hs
}

// IsHardwareAttached reports whether both a driver and a pulse generator
// have been provided.
func (c *Controller) IsHardwareAttached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hardwareAttached()
}

func (c *Controller) hardwareAttached() bool {
	return c.driver != nil && c.generator != nil
}

// Enable enables the attached driver. It fails with ErrHardwareMissing if
// no driver is attached (§8 scenario 6).
func (c *Controller) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enable()
}

func (c *Controller) enable() error {
	if c.driver == nil {
		return errHardwareMissing
	}
	if err := c.driver.Enable(); err != nil {
		return err
	}
	c.enabled = true
	return nil
}

// Disable stops any motion and disables the driver.
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disable()
}

func (c *Controller) disable() {
	if c.state != StateIdle {
		c.emergencyStop()
	}
	if c.driver != nil {
		c.driver.Disable()
	}
	c.enabled = false
}

// IsEnabled reports whether the controller believes the driver is enabled
// and the driver itself agrees.
func (c *Controller) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isEnabled()
}

func (c *Controller) isEnabled() bool {
	return c.enabled && c.driver != nil && c.driver.IsEnabled()
}

func (c *Controller) autoEnable() error {
	if c.config.EnableOnMotion && !c.isEnabled() {
		return c.enable()
	}
	return nil
}

// StartMove begins a positional or velocity move per Params.MoveType.
func (c *Controller) StartMove(params Params) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startMove(params)
}

func (c *Controller) startMove(params Params) error {
	if !c.hardwareAttached() {
		return errHardwareMissing
	}
	if c.state == StateFault {
		return errBusy
	}
	if err := c.autoEnable(); err != nil {
		return err
	}

	c.activeParams = params

	switch params.MoveType {
	case Absolute:
		c.targetPosition = params.TargetPosition
	case Relative:
		c.targetPosition = c.currentPosition + params.TargetPosition
	case Velocity:
		return c.startVelocityMove(int32(params.MaxVelocity))
	}

	if c.targetPosition > c.currentPosition {
		c.direction = driver.Forward
	} else if c.targetPosition < c.currentPosition {
		c.direction = driver.Reverse
	} else {
		c.plan = nil
		c.setState(StateHolding)
		return nil
	}
	c.driver.SetDirection(c.direction)

	c.targetVelocity = params.MaxVelocity
	c.moveStartPos = c.currentPosition
	c.startPlan(params)

	c.currentVelocity = c.config.MinVelocity
	c.setState(StateAccelerating)
	_ = c.generator.SetFrequency(c.currentVelocity)
	return c.generator.Start()
}

// MoveTo commands an absolute move using the configured default velocity
// and acceleration.
func (c *Controller) MoveTo(position int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startMove(Params{
		TargetPosition: position,
		MaxVelocity:    c.config.DefaultVelocity,
		Acceleration:   c.config.DefaultAcceleration,
		Deceleration:   c.config.DefaultAcceleration,
		Profile:        c.config.DefaultProfile,
		MoveType:       Absolute,
	})
}

// MoveBy commands a move relative to the current position.
func (c *Controller) MoveBy(distance int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startMove(Params{
		TargetPosition: distance,
		MaxVelocity:    c.config.DefaultVelocity,
		Acceleration:   c.config.DefaultAcceleration,
		Deceleration:   c.config.DefaultAcceleration,
		Profile:        c.config.DefaultProfile,
		MoveType:       Relative,
	})
}

// StartVelocity begins constant-velocity motion with no target position.
// A zero velocity is equivalent to Stop.
func (c *Controller) StartVelocity(v int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startVelocity(v)
}

func (c *Controller) startVelocity(v int32) error {
	if !c.hardwareAttached() {
		return errHardwareMissing
	}
	if c.state == StateFault {
		return errBusy
	}
	if err := c.autoEnable(); err != nil {
		return err
	}
	return c.startVelocityMove(v)
}

func (c *Controller) startVelocityMove(v int32) error {
	if v == 0 {
		c.stop()
		return nil
	}
	if v > 0 {
		c.direction = driver.Forward
		c.targetVelocity = uint32(v)
	} else {
		c.direction = driver.Reverse
		c.targetVelocity = uint32(-v)
	}
	c.driver.SetDirection(c.direction)

	c.activeParams = Params{MaxVelocity: c.targetVelocity, MoveType: Velocity}
	c.plan = nil
	c.currentVelocity = c.config.MinVelocity
	c.setState(StateAccelerating)
	_ = c.generator.SetFrequency(c.currentVelocity)
	return c.generator.Start()
}

// EmergencyStop halts motion immediately with no deceleration. Position
// may overshoot relative to a decelerated stop.
func (c *Controller) EmergencyStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emergencyStop()
}

func (c *Controller) emergencyStop() {
	if c.generator != nil {
		c.generator.Stop()
	}
	c.currentVelocity = 0
	c.setState(StateIdle)
}

// Stop begins a deceleration to a controlled halt. A no-op from Idle or
// Holding.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
}

func (c *Controller) stop() {
	if c.state == StateIdle || c.state == StateHolding {
		return
	}
	c.setState(StateDecelerating)
	c.targetVelocity = 0
}

func (c *Controller) startPlan(params Params) {
	distance := c.targetPosition - c.currentPosition
	switch params.Profile {
	case SCurve:
		jerk := params.Jerk
		if jerk == 0 {
			jerk = c.config.DefaultJerk
		}
		sc := &trajectory.SCurve{}
		if err := sc.Plan(trajectory.SCurveParams{
			Distance:        distance,
			MaxVelocity:     params.MaxVelocity,
			MaxAcceleration: params.Acceleration,
			MaxJerk:         jerk,
		}); err == nil {
			sc.Start()
			c.plan = sc
		} else {
			c.plan = nil
		}
	default:
		decel := params.Deceleration
		if decel == 0 {
			decel = params.Acceleration
		}
		tr := &trajectory.Trapezoid{}
		if err := tr.Plan(trajectory.TrapezoidParams{
			Distance:     distance,
			MaxVelocity:  params.MaxVelocity,
			Acceleration: params.Acceleration,
			Deceleration: decel,
		}); err == nil {
			tr.Start()
			c.plan = tr
		} else {
			c.plan = nil
		}
	}
	c.plannedPosition = 0
}

// Tick advances the state machine by dtUS microseconds. Per §4.7's fixed
// per-tick duty order: velocity update, apply to generator, read back
// position, evaluate transitions.
func (c *Controller) Tick(dtUS uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick(dtUS)
}

func (c *Controller) tick(dtUS uint32) {
	if (c.state == StateIdle || c.state == StateHolding) && c.driver != nil && c.driver.IsFault() {
		c.setState(StateFault)
		return
	}
	if c.state == StateIdle || c.state == StateFault {
		return
	}

	c.updateVelocity(dtUS)
	c.applyVelocity()
	c.advancePosition(dtUS)

	if c.driver != nil {
		c.currentPosition = c.driver.Position()
	}
	if c.plan != nil {
		sample := c.plan.Update(dtUS)
		c.plannedPosition = sample.Position
	}

	if c.state == StateHoming {
		c.checkHoming()
		return
	}
	c.checkTransitions()
}

func (c *Controller) checkHoming() {
	if c.homeSwitch == nil || !c.homeSwitch.Tripped() {
		return
	}
	c.emergencyStop()
	c.setPosition(0)
	c.setState(StateIdle)
}

func (c *Controller) updateVelocity(dtUS uint32) {
	if dtUS == 0 {
		return
	}

	accel := c.activeParams.Acceleration
	if accel == 0 {
		accel = c.config.DefaultAcceleration
	}

	switch c.state {
	case StateAccelerating, StateHoming:
		if c.currentVelocity < c.targetVelocity {
			deltaV := (uint64(accel) * uint64(dtUS)) / usPerSecond
			c.currentVelocity += uint32(deltaV)
			if c.currentVelocity > c.targetVelocity {
				c.currentVelocity = c.targetVelocity
			}
		}
	case StateDecelerating:
		decel := c.activeParams.Deceleration
		if decel == 0 {
			decel = accel
		}
		deltaV := (uint64(decel) * uint64(dtUS)) / usPerSecond
		if c.currentVelocity > c.config.MinVelocity {
			if deltaV < uint64(c.currentVelocity-c.config.MinVelocity) {
				c.currentVelocity -= uint32(deltaV)
			} else {
				c.currentVelocity = c.config.MinVelocity
			}
		}
	case StateCruising:
		c.currentVelocity = c.targetVelocity
	}

	if c.currentVelocity < c.config.MinVelocity && c.isDriving() {
		c.currentVelocity = c.config.MinVelocity
	}
}

// isDriving covers §4.7's In-motion predicate (Accelerating, Cruising,
// Decelerating) plus Homing: Homing is deliberately excluded from the
// public IsMoving()/Status.InMotion per the spec's literal predicate, but
// still needs the velocity ramp and pulse output the other moving states get.
func (c *Controller) isDriving() bool {
	return c.isMoving() || c.state == StateHoming
}

func (c *Controller) applyVelocity() {
	if c.generator != nil && c.isDriving() && c.currentVelocity >= c.config.MinVelocity {
		_ = c.generator.SetFrequency(c.currentVelocity)
	}
}

// advancePosition is the host-simulation stand-in for the physical pulse
// train a hardware build would drive straight into the stepper driver's
// STEP pin: it turns the commanded velocity over dt into a step count and
// applies it to the driver directly, so SimDriver's position tracks what
// the pulse generator would otherwise produce asynchronously in ISR context.
func (c *Controller) advancePosition(dtUS uint32) {
	if c.driver == nil || !c.isDriving() {
		return
	}
	steps := (uint64(c.currentVelocity) * uint64(dtUS)) / usPerSecond
	if steps == 0 {
		return
	}
	if _, err := c.driver.StepMultiple(uint32(steps), c.currentVelocity); err != nil {
		c.setState(StateFault)
	}
}

func (c *Controller) checkTransitions() {
	absDistance := absInt32(c.targetPosition - c.currentPosition)

	switch c.state {
	case StateAccelerating:
		if c.currentVelocity >= c.targetVelocity {
			c.setState(StateCruising)
		}
		if c.activeParams.MoveType != Velocity && absDistance <= c.decelDistance() {
			c.setState(StateDecelerating)
		}
	case StateCruising:
		if c.activeParams.MoveType != Velocity && absDistance <= c.decelDistance() {
			c.setState(StateDecelerating)
		}
	case StateDecelerating:
		if absDistance <= c.config.PositionTolerance {
			if c.generator != nil {
				c.generator.Stop()
			}
			c.currentVelocity = 0
			c.setState(StateHolding)
		} else if c.currentVelocity <= c.config.MinVelocity {
			if c.generator != nil {
				c.generator.Stop()
			}
			c.currentVelocity = 0
			c.setState(StateIdle)
		}
	}
}

// decelDistance is v²/(2a), the predicate of §4.7 recomputed every tick
// with the active move's acceleration (falling back to the config
// default), matching the reference implementation's reuse of the
// acceleration field for the stopping-distance estimate.
func (c *Controller) decelDistance() uint32 {
	accel := c.activeParams.Acceleration
	if accel == 0 {
		accel = c.config.DefaultAcceleration
	}
	if accel == 0 {
		return 0
	}
	v := uint64(c.currentVelocity)
	return uint32((v * v) / (2 * uint64(accel)))
}

func absInt32(v int32) uint32 {
	if v < 0 {
		v = -v
	}
	return uint32(v)
}

func (c *Controller) setState(s State) { c.state = s }

// State returns the current axis state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsMoving reports whether the axis is in a moving state.
func (c *Controller) IsMoving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isMoving()
}

func (c *Controller) isMoving() bool {
	return c.state == StateAccelerating || c.state == StateCruising || c.state == StateDecelerating
}

// IsAtTarget reports whether current position is within tolerance of target.
func (c *Controller) IsAtTarget() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAtTarget()
}

func (c *Controller) isAtTarget() bool {
	return absInt32(c.targetPosition-c.currentPosition) <= c.config.PositionTolerance
}

// Position returns the driver-authoritative current position.
func (c *Controller) Position() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPosition
}

// CurrentVelocity returns the current commanded velocity magnitude.
func (c *Controller) CurrentVelocity() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentVelocity
}

// DistanceToGo returns the signed remaining distance to target.
func (c *Controller) DistanceToGo() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetPosition - c.currentPosition
}

// TargetPosition returns the active move's target position.
func (c *Controller) TargetPosition() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetPosition
}

// Direction returns the axis's currently commanded direction.
func (c *Controller) Direction() driver.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

// PlannedPosition is the display-only position reported by the parallel
// trajectory plan; it is never fed back into the state machine (Open
// Question 2).
func (c *Controller) PlannedPosition() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plannedPositionEstimate()
}

func (c *Controller) plannedPositionEstimate() int32 {
	if c.plan == nil {
		return c.currentPosition
	}
	return c.moveStartPos + c.plannedPosition
}

// Status returns a full snapshot of the axis.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:           c.state,
		CurrentPosition: c.currentPosition,
		TargetPosition:  c.targetPosition,
		CurrentVelocity: c.currentVelocity,
		DistanceToGo:    c.targetPosition - c.currentPosition,
		InMotion:        c.isMoving(),
		AtTarget:        c.isAtTarget(),
		PlannedPosition: c.plannedPositionEstimate(),
	}
}

// SetPosition overwrites the current position, used by homing.
func (c *Controller) SetPosition(position int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPosition(position)
}

func (c *Controller) setPosition(position int32) {
	c.currentPosition = position
	if c.driver != nil {
		c.driver.SetPosition(position)
	}
}

// ResetPosition zeroes the current position.
func (c *Controller) ResetPosition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPosition(0)
}

// ClearFault clears the driver's latched fault and returns the axis to
// Idle, per the Fault → Idle transition.
func (c *Controller) ClearFault() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driver == nil {
		return errHardwareMissing
	}
	if err := c.driver.ClearFault(); err != nil {
		return err
	}
	c.setState(StateIdle)
	return nil
}

// Home drives a fixed-velocity seek toward direction until the attached
// HomeSwitch trips, then zeroes position and returns to Idle. This is the
// homing scaffold of §4.7: a single pass with no back-off, matching the
// reference project's own state, not a full homing algorithm.
func (c *Controller) Home(direction driver.Direction, seekVelocity uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hardwareAttached() {
		return errHardwareMissing
	}
	if c.homeSwitch == nil {
		return errHardwareMissing
	}
	v := int32(seekVelocity)
	if direction == driver.Reverse {
		v = -v
	}
	if err := c.startVelocity(v); err != nil {
		return err
	}
	c.setState(StateHoming)
	return nil
}
