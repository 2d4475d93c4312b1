package hal

// SimGPIODriver is a host-buildable GPIODriver backed by an in-memory pin
// table, used by the host-simulation firmware build in place of real
// hardware, in the same spirit as driver.SimDriver.
type SimGPIODriver struct {
	pins map[GPIOPin]bool
}

// NewSimGPIODriver returns a SimGPIODriver with every pin initially low.
func NewSimGPIODriver() *SimGPIODriver {
	return &SimGPIODriver{pins: make(map[GPIOPin]bool)}
}

func (d *SimGPIODriver) ConfigureOutput(pin GPIOPin) error {
	if _, ok := d.pins[pin]; !ok {
		d.pins[pin] = false
	}
	return nil
}

func (d *SimGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	d.pins[pin] = true
	return nil
}

func (d *SimGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	d.pins[pin] = false
	return nil
}

func (d *SimGPIODriver) SetPin(pin GPIOPin, value bool) error {
	d.pins[pin] = value
	return nil
}

func (d *SimGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return d.pins[pin], nil
}
