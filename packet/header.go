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

import "encoding/binary"

type sizeCallback func() int
type encodeCallback func([]byte) (int, error)
type decodeCallback func([]byte) (int, error)

type header struct {
	cb struct {
		encode encodeCallback
		decode decodeCallback
		size   sizeCallback
	}

	packetID IDType
	idSet    bool
	remLen   int32
	mFlags   byte
	mType    Type
	version  ProtocolVersion
}

const (
	offsetPacketType      byte = 0x04
	offsetPublishFlagQoS  byte = 0x01
	offsetConnFlagWillQoS byte = 0x03
)

const (
	maskMessageFlags       byte = 0x0F
	maskConnFlagUsername   byte = 0x80
	maskConnFlagPassword   byte = 0x40
	maskConnFlagWillRetain byte = 0x20
	maskConnFlagWillQos    byte = 0x18
	maskConnFlagWill       byte = 0x04
	maskConnFlagClean      byte = 0x02
	maskConnFlagReserved   byte = 0x01
	maskPublishFlagRetain  byte = 0x01
	maskPublishFlagQoS     byte = 0x06
	maskPublishFlagDup     byte = 0x08
	maskSubscriptionQoS    byte = 0x03
)

func (h *header) init(t Type, v ProtocolVersion, sz sizeCallback, enc encodeCallback, dec decodeCallback) {
	h.mType = t
	h.mFlags = t.DefaultFlags()
	h.version = v
	h.cb.encode = enc
	h.cb.decode = dec
	h.cb.size = sz
}

// Name returns a string representation of the packet type, e.g. "PUBLISH"
func (h *header) Name() string {
	return h.Type().Name()
}

// Type returns the Type of the packet
func (h *header) Type() Type {
	return h.mType
}

// Flags returns the fixed header flags of the packet
func (h *header) Flags() byte {
	return h.mFlags
}

// RemainingLength returns the length of the non-fixed-header part of the packet
func (h *header) RemainingLength() int32 {
	return h.remLen
}

// Version protocol version used by the packet
func (h *header) Version() ProtocolVersion {
	return h.version
}

// SetVersion protocol version used to encode the packet
func (h *header) SetVersion(v ProtocolVersion) {
	h.version = v
}

// ID packet id, valid only for PUBLISH (QoS1), PUBACK, SUBSCRIBE, SUBACK,
// UNSUBSCRIBE, UNSUBACK
func (h *header) ID() (IDType, error) {
	if !h.idSet {
		return 0, ErrNotSet
	}

	return h.packetID, nil
}

// SetID set packet id. Zero is not a valid packet identifier
func (h *header) SetID(id IDType) error {
	if id == 0 {
		return ErrPackedIDZero
	}

	h.packetID = id
	h.idSet = true

	return nil
}

// Encode packet into the provided buffer. Size() tells the expected buffer size.
// A short destination returns ErrInsufficientBufferSize, never a truncated packet
func (h *header) Encode(to []byte) (int, error) {
	expectedSize, err := h.Size()
	if err != nil {
		return 0, err
	}

	if expectedSize > len(to) {
		return expectedSize, ErrInsufficientBufferSize
	}

	offset := 0

	to[offset] = byte(h.mType<<offsetPacketType) | h.mFlags
	offset++

	offset += binary.PutUvarint(to[offset:], uint64(h.remLen))

	var n int

	n, err = h.cb.encode(to[offset:])
	offset += n
	return offset, err
}

// Size of the whole packet as it will appear on the wire
func (h *header) Size() (int, error) {
	ml := h.cb.size()

	if err := h.setRemainingLength(int32(ml)); err != nil {
		return 0, err
	}

	return h.size() + ml, nil
}

func (h *header) getHeader() *header {
	return h
}

func (h *header) setType(t Type) {
	h.mType = t
	h.mFlags = t.DefaultFlags()
}

func (h *header) setRemainingLength(remLen int32) error {
	if remLen > maxRemainingLength || remLen < 0 {
		return ErrInvalidLength
	}

	h.remLen = remLen

	return nil
}

func (h *header) decodePacketID(src []byte) (int, error) {
	if len(src) < 2 {
		return 0, ErrMalformedStream
	}

	id := IDType(binary.BigEndian.Uint16(src))
	if id == 0 {
		return 0, ErrMalformedStream
	}

	h.packetID = id
	h.idSet = true

	return 2, nil
}

func (h *header) encodePacketID(dst []byte) int {
	binary.BigEndian.PutUint16(dst, uint16(h.packetID))
	return 2
}

// size of the fixed header.
// must be invoked after a successful call to setRemainingLength
func (h *header) size() int {
	// packet type and flags byte
	total := 1

	return total + uvarintCalc(uint32(h.remLen))
}

// decode reads the fixed header and remaining length, then hands the variable
// part to the packet decode callback.
// ErrInsufficientDataSize means more bytes are required; every other error means
// the stream can never form a valid packet
func (h *header) decode(from []byte) (int, error) {
	offset := 0

	h.mType = Type(from[offset] >> offsetPacketType)
	h.mFlags = from[offset] & maskMessageFlags

	// [MQTT-2.2.2-1]
	if h.mType != PUBLISH {
		if h.mFlags != h.mType.DefaultFlags() {
			return offset, ErrInvalidMessageTypeFlags
		}
	} else if !QosType((h.mFlags & maskPublishFlagQoS) >> offsetPublishFlagQoS).IsValid() {
		return offset, ErrInvalidQoS
	}

	offset++

	remLen, m := uvarint(from[offset:])
	if m == 0 {
		return offset, ErrInsufficientDataSize
	}

	if m < 0 {
		return offset, ErrMalformedStream
	}

	offset += m
	h.remLen = int32(remLen)

	// a declared length beyond the receive bound can never become a valid
	// packet no matter how many bytes arrive
	if h.remLen > int32(MaxPacketSize) {
		return offset, ErrInvalidLength
	}

	if int(h.remLen) > len(from[offset:]) {
		return offset + int(h.remLen), ErrInsufficientDataSize
	}

	var err error
	if h.cb.decode != nil {
		var msgTotal int

		msgTotal, err = h.cb.decode(from[offset : offset+int(h.remLen)])
		offset += msgTotal
	}

	return offset, err
}

// uvarint decodes a uint32 from buf and returns that value and the
// number of bytes read (> 0). A non-positive count means:
//
//	n == 0: buf too small
//	n  < 0: encoding longer than 4 bytes, or a non-minimal encoding
//
// derived from binary.Uvarint
func uvarint(buf []byte) (uint32, int) {
	var x uint32
	var s uint
	for i, b := range buf {
		if b < 0x80 {
			if i > 3 {
				return 0, -(i + 1) // overflow
			}
			if b == 0 && i > 0 {
				return 0, -(i + 1) // non-minimal encoding
			}
			return x | uint32(b)<<s, i + 1
		}
		x |= uint32(b&0x7f) << s
		s += 7
	}
	return 0, 0
}

func uvarintCalc(x uint32) int {
	i := 0
	for x >= 0x80 {
		x >>= 7
		i++
	}
	return i + 1
}
