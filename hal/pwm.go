package hal

// PWMPin identifies a hardware pin capable of PWM output.
type PWMPin uint32

// PWMValue is a duty-cycle register value, 0..GetMaxValue().
type PWMValue uint32

// PWMDriver is the abstract PWM interface the PWM-backed pulse generator
// uses. The teacher gated this interface itself behind //go:build tinygo;
// it is widened here to plain Go so a host-side simulated PWM driver can
// satisfy it too, which is what lets pulsegen's PWM variant run under `go test`.
type PWMDriver interface {
	// ConfigureHardwarePWM configures a pin for hardware PWM output with the
	// given period in timer ticks, returning the actual period used.
	ConfigureHardwarePWM(pin PWMPin, periodTicks uint32) (uint32, error)

	// SetDutyCycle sets the duty cycle, 0 (always low) to GetMaxValue() (always high).
	SetDutyCycle(pin PWMPin, value PWMValue) error

	// GetMaxValue returns the maximum duty-cycle register value.
	GetMaxValue() uint32

	// DisablePWM disables PWM output on a pin, returning it to GPIO mode.
	DisablePWM(pin PWMPin) error
}

var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("hal: PWM driver not configured")
	}
	return pwmDriver
}
