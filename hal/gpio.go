package hal

// GPIOPin identifies a hardware GPIO pin number.
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface the driver package uses to
// wiggle enable/direction/step pins. Platform-specific implementations
// handle actual hardware control; a simulated implementation backs host
// builds and tests.
type GPIODriver interface {
	ConfigureOutput(pin GPIOPin) error
	ConfigureInputPullUp(pin GPIOPin) error
	ConfigureInputPullDown(pin GPIOPin) error
	SetPin(pin GPIOPin, value bool) error
	GetPin(pin GPIOPin) (bool, error)
}

var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("hal: GPIO driver not configured")
	}
	return gpioDriver
}
