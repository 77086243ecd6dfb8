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

// UnSubAck The UNSUBACK Packet is sent by the Server to the Client to confirm receipt of an
// UNSUBSCRIBE Packet
type UnSubAck struct {
	header
}

var _ Provider = (*UnSubAck)(nil)

// NewUnSubAck creates a new UNSUBACK packet
func NewUnSubAck(v ProtocolVersion) *UnSubAck {
	p := &UnSubAck{}
	p.init(UNSUBACK, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

func (msg *UnSubAck) decodeMessage(src []byte) (int, error) {
	if len(src) != 2 {
		return 0, ErrMalformedStream
	}

	return msg.decodePacketID(src)
}

func (msg *UnSubAck) encodeMessage(dst []byte) (int, error) {
	if !msg.idSet {
		return 0, ErrPackedIDZero
	}

	return msg.encodePacketID(dst), nil
}

func (msg *UnSubAck) size() int {
	return 2
}
