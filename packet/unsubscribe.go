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

// UnSubscribe An UNSUBSCRIBE Packet is sent by the Client to the Server, to unsubscribe from topics
type UnSubscribe struct {
	header

	topics []string
}

var _ Provider = (*UnSubscribe)(nil)

// NewUnSubscribe creates a new UNSUBSCRIBE packet
func NewUnSubscribe(v ProtocolVersion) *UnSubscribe {
	p := &UnSubscribe{}
	p.init(UNSUBSCRIBE, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

// Topics returns a list of topics sent by the Client
func (msg *UnSubscribe) Topics() []string {
	return msg.topics
}

// AddTopic adds a single topic filter to the message
func (msg *UnSubscribe) AddTopic(topic string) error {
	if !ValidTopicFilter(topic) {
		return ErrInvalidTopic
	}

	if len(msg.topics) >= maxSubscribeTopics {
		return ErrInvalidLength
	}

	msg.topics = append(msg.topics, topic)

	return nil
}

func (msg *UnSubscribe) decodeMessage(src []byte) (int, error) {
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

		if len(msg.topics) >= maxSubscribeTopics {
			return total, ErrInvalidLength
		}

		msg.topics = append(msg.topics, string(t))
	}

	// [MQTT-3.10.3-2]
	if len(msg.topics) == 0 {
		return total, ErrMalformedStream
	}

	return total, nil
}

func (msg *UnSubscribe) encodeMessage(dst []byte) (int, error) {
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

	for _, t := range msg.topics {
		if n, err = WriteLPBytes(dst[total:], []byte(t)); err != nil {
			return total + n, err
		}
		total += n
	}

	return total, nil
}

func (msg *UnSubscribe) size() int {
	total := 2

	for _, t := range msg.topics {
		total += 2 + len(t)
	}

	return total
}
