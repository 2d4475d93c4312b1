package protocol

// MaxPayload is the largest payload a frame may carry (§4.3).
const MaxPayload = 250

// MaxStuffedFrame is the worst-case size of a fully stuffed, delimited
// frame on the wire: 2-byte header + payload + 2-byte CRC, one stuffing
// code byte per run of up to 254 bytes, plus the trailing delimiter.
const MaxStuffedFrame = 1 + 2 + MaxPayload + 2 + 1 + 1

// MessageID identifies the kind of a frame's payload.
type MessageID uint8

// System messages, 0x00-0x0F.
const (
	MsgPing      MessageID = 0x00
	MsgVersion   MessageID = 0x01
	MsgReset     MessageID = 0x02
	MsgStatus    MessageID = 0x03
	MsgNodeInfo  MessageID = 0x04
	MsgSetNodeID MessageID = 0x05
)

// Motion messages, 0x10-0x2F.
const (
	MsgMoveTo       MessageID = 0x10
	MsgMoveBy       MessageID = 0x11
	MsgMoveVelocity MessageID = 0x12
	MsgStop         MessageID = 0x13
	MsgEmergencyStop MessageID = 0x14
	MsgHome         MessageID = 0x15
	MsgSetPosition  MessageID = 0x16
	MsgJog          MessageID = 0x17
	MsgSyncMove     MessageID = 0x18
)

// Configuration messages, 0x30-0x3F.
const (
	MsgGetParam    MessageID = 0x30
	MsgSetParam    MessageID = 0x31
	MsgSaveConfig  MessageID = 0x32
	MsgLoadConfig  MessageID = 0x33
	MsgResetConfig MessageID = 0x34
)

// Telemetry messages, 0x40-0x4F.
const (
	MsgPosition    MessageID = 0x40
	MsgVelocity    MessageID = 0x41
	MsgTemperature MessageID = 0x42
	MsgError       MessageID = 0x43
	MsgStreamStart MessageID = 0x44
	MsgStreamStop  MessageID = 0x45
)

// ResponseIDFor returns the response identifier for a request message ID:
// the top bit set, per §4.3.
func ResponseIDFor(requestID MessageID) MessageID {
	return 0x80 | requestID
}

// IsResponse reports whether an id falls in the response range.
func (m MessageID) IsResponse() bool {
	return m&0x80 != 0
}

// ResponseStatus is the single-byte status carried in every response payload.
type ResponseStatus uint8

const (
	StatusOK         ResponseStatus = 0x00
	StatusCrcErr     ResponseStatus = 0x01
	StatusUnknownCmd ResponseStatus = 0x02
	StatusBadParam   ResponseStatus = 0x03
	StatusBusy       ResponseStatus = 0x04
	StatusFault      ResponseStatus = 0x05
)

// ParamID identifies a persisted or live-tunable axis parameter (§4.9).
type ParamID uint8

const (
	ParamStepsPerRev     ParamID = 0x00 // u16
	ParamMicrostepDiv    ParamID = 0x01 // u8
	ParamMaxVelocity     ParamID = 0x02 // u32
	ParamMaxAcceleration ParamID = 0x03 // u32
	ParamRunCurrentIdx   ParamID = 0x04 // u8, 0..31
	ParamHoldCurrentIdx  ParamID = 0x05 // u8, 0..31
	ParamPositionKp      ParamID = 0x10 // f32
	ParamPositionKi      ParamID = 0x11 // f32
	ParamPositionKd      ParamID = 0x12 // f32
	ParamEncoderCPR      ParamID = 0x20 // u16
	ParamNodeID          ParamID = 0x30 // u8
)

// ErrorFlags is the sticky bitmask reported by `get error` and attached to `status`.
type ErrorFlags uint16

const (
	ErrCrcFail      ErrorFlags = 0x0001
	ErrInvalidCmd   ErrorFlags = 0x0002
	ErrInvalidParam ErrorFlags = 0x0004
	ErrOverTemp     ErrorFlags = 0x0008
	ErrOverCurrent  ErrorFlags = 0x0010
	ErrLimitHit     ErrorFlags = 0x0020
	ErrEStop        ErrorFlags = 0x0040
	ErrCommTimeout  ErrorFlags = 0x0080
	ErrEncoderFault ErrorFlags = 0x0100
)

// Set returns flags with bit set.
func (f ErrorFlags) Set(bit ErrorFlags) ErrorFlags { return f | bit }

// Has reports whether bit is set in flags.
func (f ErrorFlags) Has(bit ErrorFlags) bool { return f&bit != 0 }
