package dispatch

import (
	"axisfw/axiserr"
	"axisfw/config"
	"axisfw/motion"
	"axisfw/protocol"
)

// Version identifies this firmware build in a version response. It is a
// plain string rather than a semver type since nothing on the link parses
// it beyond display.
const Version = "axisfw-1.0"

// ResetFunc performs whatever a `reset` message should trigger on real
// hardware (e.g. a watchdog-forced reboot); the host simulation build
// passes a no-op.
type ResetFunc func()

// RegisterSystemHandlers wires the 0x00-0x0F system message range:
// ping, version, reset, status, node-info, set-node-id.
func RegisterSystemHandlers(d *Dispatcher, controller *motion.Controller, store *config.Store, reset ResetFunc) {
	d.Register(protocol.MsgPing, func(payload []byte) ([]byte, error) {
		return nil, nil
	})

	d.Register(protocol.MsgVersion, func(payload []byte) ([]byte, error) {
		return []byte(Version), nil
	})

	d.Register(protocol.MsgReset, func(payload []byte) ([]byte, error) {
		if reset != nil {
			reset()
		}
		return nil, nil
	})

	d.Register(protocol.MsgStatus, func(payload []byte) ([]byte, error) {
		return encodeStatus(controller.Status()), nil
	})

	d.Register(protocol.MsgNodeInfo, func(payload []byte) ([]byte, error) {
		return []byte{store.Live().NodeID}, nil
	})

	d.Register(protocol.MsgSetNodeID, func(payload []byte) ([]byte, error) {
		if len(payload) < 1 {
			return nil, axiserr.ErrOutOfRange
		}
		return nil, store.Set(protocol.ParamNodeID, payload[0])
	})
}
