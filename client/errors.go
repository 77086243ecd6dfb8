package client

import (
	"github.com/pkg/errors"

	"github.com/glowbridge/glowbridge/packet"
)

// Session errors returned directly from operations. None of them tears the
// connection down: state errors mean the operation is not legal right now,
// capacity errors mean the caller has to back off
var (
	// ErrNotConnected operation requires an established session
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrAlreadyConnected Connect invoked while a session is active or pending
	ErrAlreadyConnected = errors.New("mqtt: session already active")

	// ErrSessionBusy all in-flight slots are taken
	ErrSessionBusy = errors.New("mqtt: too many in-flight messages")

	// ErrConnectTimeout broker did not answer CONNECT within the timeout
	ErrConnectTimeout = errors.New("mqtt: no CONNACK within the connect timeout")

	// ErrRetriesExceeded a QoS 1 publish was re-sent the maximum number of
	// times without acknowledgement
	ErrRetriesExceeded = errors.New("mqtt: delivery retries exceeded")

	// ErrKeepAliveTimeout two keep-alive intervals passed with no broker
	// traffic at all
	ErrKeepAliveTimeout = errors.New("mqtt: keep-alive expired, broker unreachable")
)

// errDeadline internal marker for an expired poll deadline
var errDeadline = errors.New("mqtt: deadline")

// RejectedError reports that the broker declined a CONNECT with a reason
// code. Recoverable by changing parameters or retrying later, the session
// is left Disconnected
type RejectedError struct {
	Code packet.ReasonCode
}

func (e *RejectedError) Error() string {
	return "mqtt: connection refused: " + e.Code.Desc()
}

// ProtocolError reports a broker violating the wire protocol, either a
// malformed stream or a packet type that is not legal in the current state.
// Always terminal for the session
type ProtocolError struct {
	Reason error
}

func (e *ProtocolError) Error() string {
	return "mqtt: protocol violation: " + e.Reason.Error()
}

// TransportError reports an I/O failure on the connection. Always terminal
// for the session
type TransportError struct {
	Reason error
}

func (e *TransportError) Error() string {
	return "mqtt: transport: " + e.Reason.Error()
}
