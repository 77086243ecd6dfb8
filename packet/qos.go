package packet

// QosType QoS type
type QosType byte

const (
	// QoS0 At most once delivery
	// The message is delivered according to the capabilities of the underlying network.
	// No response is sent by the receiver and no retry is performed by the sender. The
	// message arrives at the receiver either once or not at all.
	QoS0 QosType = iota

	// QoS1 At least once delivery
	// This quality of service ensures that the message arrives at the receiver at least once.
	// A QoS 1 PUBLISH Packet has a Packet Identifier in its variable header and is acknowledged
	// by a PUBACK Packet.
	QoS1

	// QosFailure is a return value for a subscription if there's a problem while subscribing
	// to a specific topic.
	QosFailure QosType = 0x80
)

// IsValid checks the QoS value to see if it's valid. Valid QoS for this client
// role are QoS0 and QoS1
func (c QosType) IsValid() bool {
	return c == QoS0 || c == QoS1
}

// IsValidFull checks the QoS value including the SUBACK failure code
func (c QosType) IsValidFull() bool {
	return c == QoS0 || c == QoS1 || c == QosFailure
}

// Desc get string representation of QoS value
func (c QosType) Desc() string {
	switch c {
	case QoS0:
		return "QoS0"
	case QoS1:
		return "QoS1"
	case QosFailure:
		return "QosFailure"
	default:
		return "Invalid value"
	}
}
