// Copyright (c) 2014 The VolantMQ Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package packet

// Publish A PUBLISH Control Packet is sent from a Client to a Server or from Server to a Client
// to transport an Application Message
type Publish struct {
	header

	payload []byte
	topic   string
}

var _ Provider = (*Publish)(nil)

// NewPublish creates a new PUBLISH packet
func NewPublish(v ProtocolVersion) *Publish {
	p := &Publish{}
	p.init(PUBLISH, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

// Set topic/payload/qos/retained/dup in one go
func (msg *Publish) Set(t string, p []byte, q QosType, r bool, d bool) error {
	if !ValidTopic(t) {
		return ErrInvalidTopic
	}

	if !q.IsValid() {
		return ErrInvalidQoS
	}

	if len(p) > MaxPayloadSize {
		return ErrInvalidLength
	}

	msg.mFlags &= ^maskPublishFlagQoS
	msg.mFlags |= byte(q) << offsetPublishFlagQoS
	msg.topic = t
	msg.payload = p
	msg.SetDup(d)
	msg.SetRetain(r)

	return nil
}

// Dup returns the value specifying the duplicate delivery of a PUBLISH Control Packet.
// If the DUP flag is set to 1, it indicates that this might be re-delivery of an
// earlier attempt to send the Packet
func (msg *Publish) Dup() bool {
	return (msg.mFlags & maskPublishFlagDup) != 0
}

// SetDup sets the value specifying the duplicate delivery of a PUBLISH Control Packet
func (msg *Publish) SetDup(v bool) {
	if v {
		msg.mFlags |= maskPublishFlagDup
	} else {
		msg.mFlags &= ^maskPublishFlagDup
	}
}

// Retain returns the value of the RETAIN flag. This flag is only used on the PUBLISH
// Packet. If the RETAIN flag is set to 1, in a PUBLISH Packet sent by a Client to a
// Server, the Server MUST store the Application Message and its QoS, so that it can be
// delivered to future subscribers whose subscriptions match its topic name
func (msg *Publish) Retain() bool {
	return (msg.mFlags & maskPublishFlagRetain) != 0
}

// SetRetain sets the value of the RETAIN flag
func (msg *Publish) SetRetain(v bool) {
	if v {
		msg.mFlags |= maskPublishFlagRetain
	} else {
		msg.mFlags &= ^maskPublishFlagRetain
	}
}

// QoS returns the field that indicates the level of assurance for delivery of an
// Application Message
func (msg *Publish) QoS() QosType {
	return QosType((msg.mFlags & maskPublishFlagQoS) >> offsetPublishFlagQoS)
}

// SetQoS sets the field that indicates the level of assurance for delivery of an
// Application Message. An error is returned if the value is not QoS0 or QoS1
func (msg *Publish) SetQoS(v QosType) error {
	if !v.IsValid() {
		return ErrInvalidQoS
	}

	msg.mFlags &= ^maskPublishFlagQoS
	msg.mFlags |= byte(v) << offsetPublishFlagQoS

	return nil
}

// Topic returns the the topic name that identifies the information channel to which
// payload data is published
func (msg *Publish) Topic() string {
	return msg.topic
}

// SetTopic sets the the topic name that identifies the information channel to which
// payload data is published. An error is returned if ValidTopic() is false
func (msg *Publish) SetTopic(v string) error {
	if !ValidTopic(v) {
		return ErrInvalidTopic
	}

	msg.topic = v

	return nil
}

// Payload returns the application message that's part of the PUBLISH message
func (msg *Publish) Payload() []byte {
	return msg.payload
}

// SetPayload sets the application message that's part of the PUBLISH message.
// The codec references the provided slice, it does not copy it
func (msg *Publish) SetPayload(v []byte) error {
	if len(v) > MaxPayloadSize {
		return ErrInvalidLength
	}

	msg.payload = v

	return nil
}

func (msg *Publish) decodeMessage(src []byte) (int, error) {
	var err error
	var n int
	total := 0

	var topic []byte
	if topic, n, err = ReadLPBytes(src[total:]); err != nil {
		return total + n, err
	}
	total += n

	if !ValidTopic(string(topic)) {
		return total, ErrInvalidTopic
	}

	msg.topic = string(topic)

	// The packet identifier field is only present in the PUBLISH packets
	// where the QoS level is 1 or 2
	if msg.QoS() != QoS0 {
		if n, err = msg.decodePacketID(src[total:]); err != nil {
			return total, err
		}
		total += n
	} else if msg.Dup() {
		// [MQTT-3.3.1-2] DUP must be 0 for QoS0 messages
		return total, ErrMalformedStream
	}

	if len(src[total:]) > MaxPayloadSize {
		return total, ErrInvalidLength
	}

	msg.payload = src[total:]
	total += len(msg.payload)

	return total, nil
}

func (msg *Publish) encodeMessage(dst []byte) (int, error) {
	var err error
	var n int
	total := 0

	if !ValidTopic(msg.topic) {
		return total, ErrInvalidTopic
	}

	if n, err = WriteLPBytes(dst[total:], []byte(msg.topic)); err != nil {
		return total + n, err
	}
	total += n

	if msg.QoS() != QoS0 {
		if !msg.idSet {
			return total, ErrPackedIDZero
		}

		total += msg.encodePacketID(dst[total:])
	}

	total += copy(dst[total:], msg.payload)

	return total, nil
}

func (msg *Publish) size() int {
	total := 2 + len(msg.topic) + len(msg.payload)

	if msg.QoS() != QoS0 {
		total += 2
	}

	return total
}
