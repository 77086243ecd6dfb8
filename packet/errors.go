package packet

// Error errors
type Error byte

// nolint: golint
const (
	// ErrInvalidMessageType Invalid message type
	ErrInvalidMessageType Error = iota
	// ErrInvalidMessageTypeFlags Invalid message flags
	ErrInvalidMessageTypeFlags
	// ErrInvalidQoS Invalid message QoS
	ErrInvalidQoS
	// ErrInvalidLength Invalid message length
	ErrInvalidLength
	// ErrInsufficientBufferSize the encode destination is too small for the packet
	ErrInsufficientBufferSize
	// ErrInsufficientDataSize the source buffer does not yet hold a whole packet
	ErrInsufficientDataSize
	// ErrInvalidTopic Topic is empty or malformed
	ErrInvalidTopic
	// ErrInvalidReturnCode invalid return code
	ErrInvalidReturnCode
	// ErrInvalidLPStringSize LP string size is bigger than expected
	ErrInvalidLPStringSize
	// ErrMalformedStream stream can never form a valid packet
	ErrMalformedStream
	// ErrInvalidProtocolVersion protocol version is not supported
	ErrInvalidProtocolVersion
	// ErrInvalidProtocolName protocol name does not match the version
	ErrInvalidProtocolName
	// ErrInvalidUtf8 string is not UTF8
	ErrInvalidUtf8
	// ErrPackedIDZero packet id cannot be 0
	ErrPackedIDZero
	// ErrNotSet requested field has not been set
	ErrNotSet
	// ErrInvalidArgs invalid arguments
	ErrInvalidArgs
)

// Error returns the corresponding error string for the error code
func (e Error) Error() string {
	switch e {
	case ErrInvalidMessageType:
		return "Invalid message type"
	case ErrInvalidMessageTypeFlags:
		return "Invalid message flags"
	case ErrInvalidQoS:
		return "Invalid message QoS"
	case ErrInvalidLength:
		return "Invalid message length"
	case ErrInsufficientBufferSize:
		return "Insufficient buffer size"
	case ErrInsufficientDataSize:
		return "Insufficient data size"
	case ErrInvalidTopic:
		return "Invalid topic name"
	case ErrInvalidReturnCode:
		return "Invalid return code"
	case ErrInvalidLPStringSize:
		return "Invalid LP string size"
	case ErrMalformedStream:
		return "Malformed stream"
	case ErrInvalidProtocolVersion:
		return "Invalid protocol version"
	case ErrInvalidProtocolName:
		return "Invalid protocol name"
	case ErrInvalidUtf8:
		return "String is not UTF8"
	case ErrPackedIDZero:
		return "Packet ID cannot be 0"
	case ErrNotSet:
		return "Field has not been set"
	case ErrInvalidArgs:
		return "Invalid arguments"
	}

	return "Unknown error"
}

// IsIncomplete reports whether err means the buffer does not yet contain a whole
// packet and the caller should read more bytes and retry. Any other decode error
// is terminal for the stream
func IsIncomplete(err error) bool {
	return err == ErrInsufficientDataSize
}
