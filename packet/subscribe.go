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

// maxSubscribeTopics bounds the number of topic filters carried by one
// SUBSCRIBE packet
const maxSubscribeTopics = 16

// Subscribe The SUBSCRIBE Packet is sent from the Client to the Server to create one or more
// Subscriptions. Each Subscription registers a Client's interest in one or more
// Topics. The Server sends PUBLISH Packets to the Client in order to forward
// Application Messages that were published to Topics that match these Subscriptions.
// The SUBSCRIBE Packet also specifies (for each Subscription) the maximum QoS with
// which the Server can send Application Messages to the Client
type Subscribe struct {
	header

	topics  []string
	options []SubscriptionOptions
}

var _ Provider = (*Subscribe)(nil)

// NewSubscribe creates a new SUBSCRIBE packet
func NewSubscribe(v ProtocolVersion) *Subscribe {
	p := &Subscribe{}
	p.init(SUBSCRIBE, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

// ForEachTopic iterate over subscriptions in the order they were added
func (msg *Subscribe) ForEachTopic(fn func(string, SubscriptionOptions)) {
	for i, t := range msg.topics {
		fn(t, msg.options[i])
	}
}

// Topics returns the list of requested topic filters
func (msg *Subscribe) Topics() []string {
	return msg.topics
}

// AddTopic adds a single topic filter to the message with requested QoS
func (msg *Subscribe) AddTopic(topic string, qos QosType) error {
	if !ValidTopicFilter(topic) {
		return ErrInvalidTopic
	}

	if !qos.IsValid() {
		return ErrInvalidQoS
	}

	if len(msg.topics) >= maxSubscribeTopics {
		return ErrInvalidLength
	}

	msg.topics = append(msg.topics, topic)
	msg.options = append(msg.options, SubscriptionOptions(qos))

	return nil
}

func (msg *Subscribe) decodeMessage(src []byte) (int, error) {
	var err error
	var n int
	total := 0

	if n, err = msg.decodePacketID(src[total:]); err != nil {
		return total, err
	}
	total += n

	for total < len(src) {
		var t []byte
		if t, n, err = ReadLPBytes(src[total:]); err != nil {
			return total + n, err
		}
		total += n

		if !ValidTopicFilter(string(t)) {
			return total, ErrInvalidTopic
		}

		if len(src[total:]) < 1 {
			return total, ErrMalformedStream
		}

		ops := SubscriptionOptions(src[total])
		if !ops.QoS().IsValid() || byte(ops) & ^maskSubscriptionQoS != 0 {
			return total, ErrMalformedStream
		}
		total++

		if len(msg.topics) >= maxSubscribeTopics {
			return total, ErrInvalidLength
		}

		msg.topics = append(msg.topics, string(t))
		msg.options = append(msg.options, ops)
	}

	// [MQTT-3.8.3-3]
	if len(msg.topics) == 0 {
		return total, ErrMalformedStream
	}

	return total, nil
}

func (msg *Subscribe) encodeMessage(dst []byte) (int, error) {
	if len(msg.topics) == 0 {
		return 0, ErrInvalidArgs
	}

	if !msg.idSet {
		return 0, ErrPackedIDZero
	}

	var err error
	var n int
	total := 0

	total += msg.encodePacketID(dst[total:])

	for i, t := range msg.topics {
		if n, err = WriteLPBytes(dst[total:], []byte(t)); err != nil {
			return total + n, err
		}
		total += n

		dst[total] = byte(msg.options[i])
		total++
	}

	return total, nil
}

func (msg *Subscribe) size() int {
	// packet ID
	total := 2

	for _, t := range msg.topics {
		total += 2 + len(t) + 1
	}

	return total
}
