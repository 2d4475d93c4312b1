// Package dispatch implements the byte-oriented Dispatcher of §4.3: it
// receives decoded frames and routes System/Motion/Configuration messages
// to per-message handlers (no Telemetry-range handlers are registered, so
// those IDs get StatusUnknownCmd), translating any handler-returned typed
// error (§7) into the matching response status code. This is the seam
// between the communication task and the motion/config packages; neither
// the frame codec nor the handlers know about each other directly.
package dispatch

import (
	"axisfw/axiserr"
	"axisfw/protocol"
)

// Handler decodes a request payload, performs the corresponding operation,
// and returns the bytes to append after the status byte in the response
// (nil for messages with no reply data beyond the status).
type Handler func(payload []byte) ([]byte, error)

// Dispatcher routes message IDs to Handlers and builds response frames.
type Dispatcher struct {
	handlers map[protocol.MessageID]Handler
}

// New returns an empty Dispatcher; callers register handlers with Register
// or one of the RegisterXxxHandlers helpers in this package.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[protocol.MessageID]Handler)}
}

// Register binds a Handler to a request message ID. Registering the same
// ID twice replaces the previous handler.
func (d *Dispatcher) Register(id protocol.MessageID, h Handler) {
	d.handlers[id] = h
}

// Handle runs the handler registered for req.ID and builds the matching
// response frame. An unregistered ID produces StatusUnknownCmd; a Coded
// error from the handler is translated via statusFor; any other error is
// reported as StatusBadParam.
func (d *Dispatcher) Handle(req protocol.Frame) protocol.Frame {
	handler, ok := d.handlers[req.ID]
	if !ok {
		return response(req.ID, protocol.StatusUnknownCmd, nil)
	}

	body, err := handler(req.Payload)
	if err != nil {
		return response(req.ID, statusFor(err), nil)
	}
	return response(req.ID, protocol.StatusOK, body)
}

func response(reqID protocol.MessageID, status protocol.ResponseStatus, body []byte) protocol.Frame {
	payload := make([]byte, 1+len(body))
	payload[0] = byte(status)
	copy(payload[1:], body)
	return protocol.Frame{ID: protocol.ResponseIDFor(reqID), Payload: payload}
}

// statusFor maps a handler error to the wire status code of §4.3. Errors
// that don't implement axiserr.Coded (a plain decode error, for instance)
// are treated as a malformed parameter, not a protocol-level failure —
// the frame itself decoded fine, or Handle would never have run.
func statusFor(err error) protocol.ResponseStatus {
	coded, ok := err.(axiserr.Coded)
	if !ok {
		return protocol.StatusBadParam
	}
	switch coded.Code() {
	case axiserr.CodeUnknownID:
		return protocol.StatusUnknownCmd
	case axiserr.CodeOutOfRange, axiserr.CodeWrongType, axiserr.CodeHardwareMissing, axiserr.CodePlanRejected, axiserr.CodeEnableFailed:
		return protocol.StatusBadParam
	case axiserr.CodeNotInitialized, axiserr.CodeBusy, axiserr.CodeFrequencyOutOfRange:
		return protocol.StatusBusy
	case axiserr.CodeOverTemp, axiserr.CodeOverCurrent, axiserr.CodeLimitHit, axiserr.CodeEStop, axiserr.CodeEncoderFault, axiserr.CodeCommTimeout:
		return protocol.StatusFault
	default:
		return protocol.StatusBadParam
	}
}
