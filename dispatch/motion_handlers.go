package dispatch

import (
	"encoding/binary"

	"axisfw/axiserr"
	"axisfw/driver"
	"axisfw/motion"
	"axisfw/protocol"
)

func driverDirectionFromByte(b byte) driver.Direction {
	if b != 0 {
		return driver.Reverse
	}
	return driver.Forward
}

// RegisterMotionHandlers wires the 0x10-0x2F motion message range to
// controller. Payload layouts match host/link/requests.go exactly: both
// sides of the link are this repository's own design (§4.3 fixes the
// frame/CRC format and the ID ranges, not each message's payload), so
// they're kept in the same fixed little-endian shape here.
//
// jog and sync-move (0x17/0x18) are intentionally left unregistered: §2's
// multi-axis synchronization is explicitly scaffolded-but-not-implemented,
// and a single-axis jog has no distinct semantics from move-velocity here.
// An unregistered ID yields StatusUnknownCmd, not a crash.
func RegisterMotionHandlers(d *Dispatcher, controller *motion.Controller) {
	d.Register(protocol.MsgMoveTo, func(payload []byte) ([]byte, error) {
		pos, err := decodeI32(payload)
		if err != nil {
			return nil, err
		}
		return nil, controller.MoveTo(pos)
	})

	d.Register(protocol.MsgMoveBy, func(payload []byte) ([]byte, error) {
		dist, err := decodeI32(payload)
		if err != nil {
			return nil, err
		}
		return nil, controller.MoveBy(dist)
	})

	d.Register(protocol.MsgMoveVelocity, func(payload []byte) ([]byte, error) {
		v, err := decodeI32(payload)
		if err != nil {
			return nil, err
		}
		return nil, controller.StartVelocity(v)
	})

	d.Register(protocol.MsgStop, func(payload []byte) ([]byte, error) {
		controller.Stop()
		return nil, nil
	})

	d.Register(protocol.MsgEmergencyStop, func(payload []byte) ([]byte, error) {
		controller.EmergencyStop()
		return nil, nil
	})

	d.Register(protocol.MsgHome, func(payload []byte) ([]byte, error) {
		if len(payload) < 5 {
			return nil, axiserr.ErrOutOfRange
		}
		dir := driverDirectionFromByte(payload[0])
		seekVelocity := binary.LittleEndian.Uint32(payload[1:5])
		return nil, controller.Home(dir, seekVelocity)
	})

	d.Register(protocol.MsgSetPosition, func(payload []byte) ([]byte, error) {
		pos, err := decodeI32(payload)
		if err != nil {
			return nil, err
		}
		controller.SetPosition(pos)
		return nil, nil
	})
}

func decodeI32(payload []byte) (int32, error) {
	if len(payload) < 4 {
		return 0, axiserr.ErrOutOfRange
	}
	return int32(binary.LittleEndian.Uint32(payload)), nil
}

// encodeStatus serializes a motion.Status into the fixed 18-byte body
// host/link/requests.go's Status() decodes: state, current/target
// position, current velocity, distance to go, then a flag byte
// (bit0=in_motion, bit1=at_target).
func encodeStatus(s motion.Status) []byte {
	body := make([]byte, 18)
	body[0] = byte(s.State)
	binary.LittleEndian.PutUint32(body[1:5], uint32(s.CurrentPosition))
	binary.LittleEndian.PutUint32(body[5:9], uint32(s.TargetPosition))
	binary.LittleEndian.PutUint32(body[9:13], s.CurrentVelocity)
	binary.LittleEndian.PutUint32(body[13:17], uint32(s.DistanceToGo))
	var flags byte
	if s.InMotion {
		flags |= 0x01
	}
	if s.AtTarget {
		flags |= 0x02
	}
	body[17] = flags
	return body
}
