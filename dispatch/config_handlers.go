package dispatch

import (
	"encoding/binary"
	"math"

	"axisfw/axiserr"
	"axisfw/config"
	"axisfw/protocol"
)

// RegisterConfigHandlers wires the parameter-store message range: get/set
// a single parameter, and save/load/reset the whole table. Payload layouts
// mirror host/link/requests.go: get takes [id], set takes [id, value...]
// with value's width fixed by the parameter's known type in §4.9.
func RegisterConfigHandlers(d *Dispatcher, store *config.Store) {
	d.Register(protocol.MsgGetParam, func(payload []byte) ([]byte, error) {
		if len(payload) < 1 {
			return nil, axiserr.ErrOutOfRange
		}
		id := protocol.ParamID(payload[0])
		value, ok := store.Get(id)
		if !ok {
			return nil, axiserr.ErrUnknownID
		}
		return encodeParamValue(value), nil
	})

	d.Register(protocol.MsgSetParam, func(payload []byte) ([]byte, error) {
		if len(payload) < 2 {
			return nil, axiserr.ErrOutOfRange
		}
		id := protocol.ParamID(payload[0])
		value, err := decodeParamValue(id, payload[1:])
		if err != nil {
			return nil, err
		}
		return nil, store.Set(id, value)
	})

	d.Register(protocol.MsgSaveConfig, func(payload []byte) ([]byte, error) {
		return nil, store.Save()
	})

	d.Register(protocol.MsgLoadConfig, func(payload []byte) ([]byte, error) {
		return nil, store.LoadFromBackend()
	})

	d.Register(protocol.MsgResetConfig, func(payload []byte) ([]byte, error) {
		store.Reset()
		return nil, nil
	})
}

// encodeParamValue serializes a value returned by Table.Get into the raw
// little-endian wire bytes GetParam's caller expects for that field's type.
func encodeParamValue(value any) []byte {
	switch v := value.(type) {
	case uint8:
		return []byte{v}
	case uint16:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, v)
		return buf
	case uint32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v)
		return buf
	case float32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		return buf
	default:
		return nil
	}
}

// decodeParamValue reads SetParam's raw value bytes back into the Go type
// Table.Set expects for id, using §4.9's fixed per-parameter width.
func decodeParamValue(id protocol.ParamID, raw []byte) (any, error) {
	switch id {
	case protocol.ParamStepsPerRev, protocol.ParamEncoderCPR:
		if len(raw) < 2 {
			return nil, axiserr.ErrOutOfRange
		}
		return binary.LittleEndian.Uint16(raw), nil
	case protocol.ParamMicrostepDiv, protocol.ParamRunCurrentIdx, protocol.ParamHoldCurrentIdx, protocol.ParamNodeID:
		if len(raw) < 1 {
			return nil, axiserr.ErrOutOfRange
		}
		return raw[0], nil
	case protocol.ParamMaxVelocity, protocol.ParamMaxAcceleration:
		if len(raw) < 4 {
			return nil, axiserr.ErrOutOfRange
		}
		return binary.LittleEndian.Uint32(raw), nil
	case protocol.ParamPositionKp, protocol.ParamPositionKi, protocol.ParamPositionKd:
		if len(raw) < 4 {
			return nil, axiserr.ErrOutOfRange
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(raw)), nil
	default:
		return nil, axiserr.ErrUnknownID
	}
}
