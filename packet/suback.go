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

// SubAck A SUBACK Packet is sent by the Server to the Client to confirm receipt and
// processing of a SUBSCRIBE Packet. A SUBACK Packet contains a list of return
// codes, that specify the maximum QoS level that was granted in each Subscription
// that was requested by the SUBSCRIBE
type SubAck struct {
	header

	returnCodes []QosType
}

var _ Provider = (*SubAck)(nil)

// NewSubAck creates a new SUBACK packet
func NewSubAck(v ProtocolVersion) *SubAck {
	p := &SubAck{}
	p.init(SUBACK, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

// ReturnCodes returns the list of granted QoS levels, one per requested topic
// filter, in the order the filters were requested
func (msg *SubAck) ReturnCodes() []QosType {
	return msg.returnCodes
}

// AddReturnCodes sets the list of granted QoS. An error is returned if any of
// the codes are not valid granted values
func (msg *SubAck) AddReturnCodes(ret []QosType) error {
	for _, c := range ret {
		if !c.IsValidFull() {
			return ErrInvalidReturnCode
		}

		msg.returnCodes = append(msg.returnCodes, c)
	}

	return nil
}

// AddReturnCode adds a single QoS to the list of granted return codes
func (msg *SubAck) AddReturnCode(ret QosType) error {
	return msg.AddReturnCodes([]QosType{ret})
}

func (msg *SubAck) decodeMessage(src []byte) (int, error) {
	var err error
	var n int
	total := 0

	if n, err = msg.decodePacketID(src[total:]); err != nil {
		return total, err
	}
	total += n

	numCodes := len(src) - total
	if numCodes <= 0 || numCodes > maxSubscribeTopics {
		return total, ErrMalformedStream
	}

	for _, c := range src[total : total+numCodes] {
		if !QosType(c).IsValidFull() {
			return total, ErrInvalidReturnCode
		}
		msg.returnCodes = append(msg.returnCodes, QosType(c))
	}

	total += numCodes

	return total, nil
}

func (msg *SubAck) encodeMessage(dst []byte) (int, error) {
	if !msg.idSet {
		return 0, ErrPackedIDZero
	}

	total := msg.encodePacketID(dst)

	for _, c := range msg.returnCodes {
		dst[total] = byte(c)
		total++
	}

	return total, nil
}

func (msg *SubAck) size() int {
	return 2 + len(msg.returnCodes)
}
