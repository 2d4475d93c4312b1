package driver

// SimEncoder is a host-buildable Encoder used in tests. Its reading is set
// directly by the test rather than derived from a real sensor.
type SimEncoder struct {
	countsPerRev uint16
	reading      uint16
	err          error
}

// NewSimEncoder constructs a simulated encoder with the given resolution.
func NewSimEncoder(countsPerRev uint16) *SimEncoder {
	return &SimEncoder{countsPerRev: countsPerRev}
}

func (e *SimEncoder) Configure() error { return nil }

func (e *SimEncoder) CountsPerRev() uint16 { return e.countsPerRev }

func (e *SimEncoder) Position() (uint16, error) { return e.reading, e.err }

// SetReading sets the value the next Position call returns, wrapped into
// the encoder's native range.
func (e *SimEncoder) SetReading(counts uint16) {
	e.reading = counts % e.countsPerRev
}

// SetError makes the next Position call fail, simulating a bus fault.
func (e *SimEncoder) SetError(err error) {
	e.err = err
}
