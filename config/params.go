// Package config implements the persisted parameter table of §4.9: the
// typed field-per-ParamID table the link's get/set-parameter commands read
// and write, plus the save/load/reset commands that move it to and from a
// CRC-protected block.
package config

import "axisfw/protocol"

// Table holds one value per parameter identifier in §4.9. Every field is
// addressable both by name (firmware-internal use, e.g. motion.Config
// construction) and by ParamID (wire access via get/set parameter).
type Table struct {
	StepsPerRev     uint16
	MicrostepDiv    uint8
	MaxVelocity     uint32
	MaxAcceleration uint32
	RunCurrentIdx   uint8
	HoldCurrentIdx  uint8
	PositionKp      float32
	PositionKi      float32
	PositionKd      float32
	EncoderCPR      uint16
	NodeID          uint8
}

// Defaults returns the compile-time default parameter table, restored by
// `reset config` and used to seed a fresh device with no persisted block.
func Defaults() Table {
	return Table{
		StepsPerRev:     200,
		MicrostepDiv:    16,
		MaxVelocity:     10000,
		MaxAcceleration: 50000,
		RunCurrentIdx:   16,
		HoldCurrentIdx:  8,
		PositionKp:      1.0,
		PositionKi:      0.0,
		PositionKd:      0.0,
		EncoderCPR:      4096,
		NodeID:          0,
	}
}

// Get reads a single parameter by wire ID.
func (t Table) Get(id protocol.ParamID) (value any, ok bool) {
	switch id {
	case protocol.ParamStepsPerRev:
		return t.StepsPerRev, true
	case protocol.ParamMicrostepDiv:
		return t.MicrostepDiv, true
	case protocol.ParamMaxVelocity:
		return t.MaxVelocity, true
	case protocol.ParamMaxAcceleration:
		return t.MaxAcceleration, true
	case protocol.ParamRunCurrentIdx:
		return t.RunCurrentIdx, true
	case protocol.ParamHoldCurrentIdx:
		return t.HoldCurrentIdx, true
	case protocol.ParamPositionKp:
		return t.PositionKp, true
	case protocol.ParamPositionKi:
		return t.PositionKi, true
	case protocol.ParamPositionKd:
		return t.PositionKd, true
	case protocol.ParamEncoderCPR:
		return t.EncoderCPR, true
	case protocol.ParamNodeID:
		return t.NodeID, true
	default:
		return nil, false
	}
}

// errUnknownParam, errWrongType and errOutOfRange are returned by Set; kept
// unexported and not wrapped into an axiserr.Coded variant: the dispatcher
// passes them through as-is and reports any non-Coded error as
// StatusBadParam (this package has no wire-format dependency beyond ParamID).
var (
	errUnknownParam = &paramError{"unknown parameter id"}
	errWrongType    = &paramError{"wrong parameter type"}
	errOutOfRange   = &paramError{"parameter out of range"}
)

type paramError struct{ msg string }

func (e *paramError) Error() string { return "config: " + e.msg }

// Set writes a single parameter by wire ID, validating both the Go type
// carried by value and, for the two current-index fields, the 0..31 range
// §4.9 specifies.
func (t *Table) Set(id protocol.ParamID, value any) error {
	switch id {
	case protocol.ParamStepsPerRev:
		v, ok := value.(uint16)
		if !ok {
			return errWrongType
		}
		t.StepsPerRev = v
	case protocol.ParamMicrostepDiv:
		v, ok := value.(uint8)
		if !ok {
			return errWrongType
		}
		t.MicrostepDiv = v
	case protocol.ParamMaxVelocity:
		v, ok := value.(uint32)
		if !ok {
			return errWrongType
		}
		t.MaxVelocity = v
	case protocol.ParamMaxAcceleration:
		v, ok := value.(uint32)
		if !ok {
			return errWrongType
		}
		t.MaxAcceleration = v
	case protocol.ParamRunCurrentIdx:
		v, ok := value.(uint8)
		if !ok {
			return errWrongType
		}
		if v > 31 {
			return errOutOfRange
		}
		t.RunCurrentIdx = v
	case protocol.ParamHoldCurrentIdx:
		v, ok := value.(uint8)
		if !ok {
			return errWrongType
		}
		if v > 31 {
			return errOutOfRange
		}
		t.HoldCurrentIdx = v
	case protocol.ParamPositionKp:
		v, ok := value.(float32)
		if !ok {
			return errWrongType
		}
		t.PositionKp = v
	case protocol.ParamPositionKi:
		v, ok := value.(float32)
		if !ok {
			return errWrongType
		}
		t.PositionKi = v
	case protocol.ParamPositionKd:
		v, ok := value.(float32)
		if !ok {
			return errWrongType
		}
		t.PositionKd = v
	case protocol.ParamEncoderCPR:
		v, ok := value.(uint16)
		if !ok {
			return errWrongType
		}
		t.EncoderCPR = v
	case protocol.ParamNodeID:
		v, ok := value.(uint8)
		if !ok {
			return errWrongType
		}
		t.NodeID = v
	default:
		return errUnknownParam
	}
	return nil
}
