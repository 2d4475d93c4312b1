package config

import (
	"encoding/binary"
	"math"

	"axisfw/protocol"
)

// storeVersion is the u16 written ahead of the packed table so a future
// firmware revision can detect and reject a block laid out differently.
const storeVersion uint16 = 1

// blockSize is the packed table's fixed width, not counting the version
// prefix or the trailing CRC: 2+1+4+4+1+1+4+4+4+2+1 bytes for
// StepsPerRev..NodeID in Table's declared field order.
const blockSize = 2 + 1 + 4 + 4 + 1 + 1 + 4 + 4 + 4 + 2 + 1

// EncodedSize is the total byte length Save produces: version + table + CRC.
const EncodedSize = 2 + blockSize + 2

// errCRCMismatch is returned by Load when the trailing CRC does not match
// the block, per §4.9's "load config rejects a block whose CRC does not
// match" requirement.
var errCRCMismatch = &paramError{"persisted config crc mismatch"}

// errShortBlock is returned by Load when the input is not exactly
// EncodedSize bytes long (too short or too long), distinct from a CRC
// failure so callers can tell corruption from a wrong-length block.
var errShortBlock = &paramError{"persisted config block too short"}

// Save packs t into the nonvolatile-storage layout of §4.9: a u16 version,
// the fixed-width parameter block, and a trailing CRC-16/CCITT-FALSE over
// everything before it, using the same polynomial as the link frame CRC.
func Save(t Table) []byte {
	out := make([]byte, EncodedSize)
	binary.LittleEndian.PutUint16(out[0:2], storeVersion)

	body := out[2 : 2+blockSize]
	off := 0
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(body[off:], v)
		off += 2
	}
	putU8 := func(v uint8) {
		body[off] = v
		off++
	}
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(body[off:], v)
		off += 4
	}
	putF32 := func(v float32) {
		binary.LittleEndian.PutUint32(body[off:], math.Float32bits(v))
		off += 4
	}

	putU16(t.StepsPerRev)
	putU8(t.MicrostepDiv)
	putU32(t.MaxVelocity)
	putU32(t.MaxAcceleration)
	putU8(t.RunCurrentIdx)
	putU8(t.HoldCurrentIdx)
	putF32(t.PositionKp)
	putF32(t.PositionKi)
	putF32(t.PositionKd)
	putU16(t.EncoderCPR)
	putU8(t.NodeID)

	crc := protocol.CalculateCRC16(out[:2+blockSize])
	binary.LittleEndian.PutUint16(out[2+blockSize:], crc)
	return out
}

// Load unpacks and validates a block produced by Save. A CRC mismatch —
// from a corrupted block or from data that never came from Save — is
// reported rather than silently returning zero-valued parameters.
func Load(data []byte) (Table, error) {
	var t Table
	if len(data) != EncodedSize {
		return t, errShortBlock
	}

	crc := binary.LittleEndian.Uint16(data[2+blockSize:])
	if !protocol.VerifyCRC16(data[:2+blockSize], crc) {
		return t, errCRCMismatch
	}

	body := data[2 : 2+blockSize]
	off := 0
	getU16 := func() uint16 {
		v := binary.LittleEndian.Uint16(body[off:])
		off += 2
		return v
	}
	getU8 := func() uint8 {
		v := body[off]
		off++
		return v
	}
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(body[off:])
		off += 4
		return v
	}
	getF32 := func() float32 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(body[off:]))
		off += 4
		return v
	}

	t.StepsPerRev = getU16()
	t.MicrostepDiv = getU8()
	t.MaxVelocity = getU32()
	t.MaxAcceleration = getU32()
	t.RunCurrentIdx = getU8()
	t.HoldCurrentIdx = getU8()
	t.PositionKp = getF32()
	t.PositionKi = getF32()
	t.PositionKd = getF32()
	t.EncoderCPR = getU16()
	t.NodeID = getU8()
	return t, nil
}

// Store is the firmware-side owner of the parameter table: an in-memory
// live copy plus the load/save/reset operations the configuration
// messages (§6) drive. It does not itself touch nonvolatile storage; a
// Backend supplies that so tests can run against an in-memory stand-in
// and a hardware build can wire in real flash.
type Store struct {
	live    Table
	backend Backend
}

// Backend is the nonvolatile medium a Store persists its encoded block to.
// Both the RP2040 build and the tests use MemBackend, an in-memory
// stand-in; no flash-backed implementation exists.
type Backend interface {
	ReadBlock() ([]byte, error)
	WriteBlock(data []byte) error
}

// NewStore constructs a Store seeded with the compile-time defaults; call
// LoadFromBackend to attempt restoring a previously saved block.
func NewStore(backend Backend) *Store {
	return &Store{live: Defaults(), backend: backend}
}

// Live returns the current in-memory parameter table.
func (s *Store) Live() Table { return s.live }

// Get reads a single live parameter by wire ID.
func (s *Store) Get(id protocol.ParamID) (any, bool) { return s.live.Get(id) }

// Set writes a single live parameter by wire ID. The change is not
// persisted until Save is called.
func (s *Store) Set(id protocol.ParamID, value any) error { return s.live.Set(id, value) }

// Save encodes the live table and writes it to the backend (`save config`).
func (s *Store) Save() error {
	return s.backend.WriteBlock(Save(s.live))
}

// LoadFromBackend reads and decodes the backend's block, replacing the
// live table on success (`load config`). The live table is left untouched
// on failure.
func (s *Store) LoadFromBackend() error {
	data, err := s.backend.ReadBlock()
	if err != nil {
		return err
	}
	t, err := Load(data)
	if err != nil {
		return err
	}
	s.live = t
	return nil
}

// Reset restores the compile-time defaults to the live table (`reset
// config`). Unlike LoadFromBackend this always succeeds and never touches
// the backend, matching §8's "reset config always yields the compile-time
// default table regardless of prior state".
func (s *Store) Reset() {
	s.live = Defaults()
}

// MemBackend is a host-buildable in-memory Backend, used by tests and by
// the host simulation firmware build in place of real flash.
type MemBackend struct {
	block []byte
}

// ReadBlock returns the last block written, or errShortBlock if nothing
// has been written yet.
func (m *MemBackend) ReadBlock() ([]byte, error) {
	if m.block == nil {
		return nil, errShortBlock
	}
	out := make([]byte, len(m.block))
	copy(out, m.block)
	return out, nil
}

// WriteBlock stores data as the backend's current block.
func (m *MemBackend) WriteBlock(data []byte) error {
	m.block = append([]byte(nil), data...)
	return nil
}
