package link

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"axisfw/protocol"
)

// StatusReport mirrors motion.Status enough for host tooling to render it,
// without importing the motion package (the link speaks wire bytes, not
// firmware-internal types).
type StatusReport struct {
	State           uint8
	CurrentPosition int32
	TargetPosition  int32
	CurrentVelocity uint32
	DistanceToGo    int32
	InMotion        bool
	AtTarget        bool
}

func encodeI32(v int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

func encodeU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// checkStatus turns a response's leading status byte into an error, per
// §4.3's response convention (first payload byte is a protocol.ResponseStatus).
func checkStatus(frame protocol.Frame) ([]byte, error) {
	if len(frame.Payload) < 1 {
		return nil, fmt.Errorf("link: response for id 0x%02x has no status byte", frame.ID)
	}
	status := protocol.ResponseStatus(frame.Payload[0])
	if status != protocol.StatusOK {
		return nil, fmt.Errorf("link: request rejected: status 0x%02x", status)
	}
	return frame.Payload[1:], nil
}

// MoveTo commands an absolute move to position.
func (c *Client) MoveTo(position int32) error {
	frame, err := c.Request(protocol.MsgMoveTo, encodeI32(position), DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// MoveBy commands a move relative to the current position.
func (c *Client) MoveBy(distance int32) error {
	frame, err := c.Request(protocol.MsgMoveBy, encodeI32(distance), DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// MoveVelocity commands constant-velocity motion; a signed magnitude, 0 stops.
func (c *Client) MoveVelocity(velocity int32) error {
	frame, err := c.Request(protocol.MsgMoveVelocity, encodeI32(velocity), DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// Stop requests a cooperative, decelerated stop.
func (c *Client) Stop() error {
	frame, err := c.Request(protocol.MsgStop, nil, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// EmergencyStop requests an immediate halt with no deceleration.
func (c *Client) EmergencyStop() error {
	frame, err := c.Request(protocol.MsgEmergencyStop, nil, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// Home starts the single-pass homing scaffold; reverse selects the
// negative-direction seek.
func (c *Client) Home(reverse bool, seekVelocity uint32) error {
	payload := make([]byte, 5)
	if reverse {
		payload[0] = 1
	}
	binary.LittleEndian.PutUint32(payload[1:], seekVelocity)

	frame, err := c.Request(protocol.MsgHome, payload, 10*time.Second)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// SetPosition overwrites the firmware's current position without moving.
func (c *Client) SetPosition(position int32) error {
	frame, err := c.Request(protocol.MsgSetPosition, encodeI32(position), DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// Status requests the current axis snapshot.
func (c *Client) Status() (StatusReport, error) {
	frame, err := c.Request(protocol.MsgStatus, nil, DefaultTimeout)
	if err != nil {
		return StatusReport{}, err
	}
	body, err := checkStatus(frame)
	if err != nil {
		return StatusReport{}, err
	}
	if len(body) < 18 {
		return StatusReport{}, fmt.Errorf("link: status payload too short (%d bytes)", len(body))
	}

	report := StatusReport{
		State:           body[0],
		CurrentPosition: int32(binary.LittleEndian.Uint32(body[1:5])),
		TargetPosition:  int32(binary.LittleEndian.Uint32(body[5:9])),
		CurrentVelocity: binary.LittleEndian.Uint32(body[9:13]),
		DistanceToGo:    int32(binary.LittleEndian.Uint32(body[13:17])),
	}
	flags := body[17]
	report.InMotion = flags&0x01 != 0
	report.AtTarget = flags&0x02 != 0
	return report, nil
}

// GetParam reads one parameter's raw wire bytes; the caller interprets
// them per the parameter's known width from §4.9 (the response carries no
// type tag of its own, matching a fixed schema known to both ends).
func (c *Client) GetParam(id protocol.ParamID) ([]byte, error) {
	frame, err := c.Request(protocol.MsgGetParam, []byte{byte(id)}, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return checkStatus(frame)
}

// SetParamU8/U16/U32/F32 set a single parameter of the given width.
func (c *Client) SetParamU8(id protocol.ParamID, value uint8) error {
	return c.setParam(id, []byte{value})
}

func (c *Client) SetParamU16(id protocol.ParamID, value uint16) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, value)
	return c.setParam(id, buf)
}

func (c *Client) SetParamU32(id protocol.ParamID, value uint32) error {
	return c.setParam(id, encodeU32(value))
}

func (c *Client) SetParamF32(id protocol.ParamID, value float32) error {
	return c.setParam(id, encodeU32(math.Float32bits(value)))
}

func (c *Client) setParam(id protocol.ParamID, encoded []byte) error {
	payload := append([]byte{byte(id)}, encoded...)
	frame, err := c.Request(protocol.MsgSetParam, payload, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// SaveConfig persists the live parameter table to nonvolatile storage.
func (c *Client) SaveConfig() error {
	frame, err := c.Request(protocol.MsgSaveConfig, nil, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// LoadConfig restores the parameter table from the last saved block.
func (c *Client) LoadConfig() error {
	frame, err := c.Request(protocol.MsgLoadConfig, nil, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}

// ResetConfig restores the compile-time default parameter table.
func (c *Client) ResetConfig() error {
	frame, err := c.Request(protocol.MsgResetConfig, nil, DefaultTimeout)
	if err != nil {
		return err
	}
	_, err = checkStatus(frame)
	return err
}
