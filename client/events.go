package client

import "github.com/glowbridge/glowbridge/packet"

// Event is a tagged result delivered by Poll. A nil Event with a nil error
// means only internal bookkeeping occurred and the caller should keep
// polling
type Event interface {
	event()
}

// Message an inbound PUBLISH. Payload references the receive buffer and is
// only valid until the next Poll call; callers keeping it longer must copy
type Message struct {
	Topic   string
	Payload []byte
	QoS     packet.QosType
	Retain  bool
	Dup     bool
}

// SubscribeAck broker answered a SUBSCRIBE. Failed is set when the broker
// refused the subscription; otherwise Granted holds the QoS the broker
// actually granted, which may be lower than requested
type SubscribeAck struct {
	ID        packet.IDType
	Filter    string
	Requested packet.QosType
	Granted   packet.QosType
	Failed    bool
}

// UnsubscribeAck broker answered an UNSUBSCRIBE
type UnsubscribeAck struct {
	ID     packet.IDType
	Filter string
}

// DeliveryConfirmed a QoS 1 publish was acknowledged and its slot released
type DeliveryConfirmed struct {
	ID packet.IDType
}

// DeliveryFailed a QoS 1 publish exhausted its retries. The slot is
// released, the message will not be re-sent
type DeliveryFailed struct {
	ID     packet.IDType
	Reason error
}

// ConnectionLost the session ended on a transport or protocol failure. The
// client is Disconnected, pending acknowledgements are gone
type ConnectionLost struct {
	Reason error
}

func (Message) event()           {}
func (SubscribeAck) event()      {}
func (UnsubscribeAck) event()    {}
func (DeliveryConfirmed) event() {}
func (DeliveryFailed) event()    {}
func (ConnectionLost) event()    {}
