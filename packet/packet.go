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

// Package packet implements the MQTT v3.1.1 control packet codec used by the
// client role: CONNECT/CONNACK, PUBLISH/PUBACK (QoS 0/1), SUBSCRIBE/SUBACK,
// UNSUBSCRIBE/UNSUBACK, PINGREQ/PINGRESP and DISCONNECT.
//
// The codec is pure: no I/O, no retained state between calls. Encode writes
// into a caller-supplied buffer and fails with ErrInsufficientBufferSize
// rather than truncating. Decode distinguishes a buffer that does not yet
// hold a whole packet (ErrInsufficientDataSize) from bytes that can never
// form one.
package packet

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxPacketSize upper bound of a whole packet accepted or produced by this
	// codec. A remaining length above it is rejected as malformed
	MaxPacketSize = 16384

	// MaxTopicLength upper bound of a topic name or filter
	MaxTopicLength = 256

	// MaxPayloadSize upper bound of a PUBLISH payload
	MaxPayloadSize = 8192

	// MaxClientIDLength upper bound of the client identifier
	MaxClientIDLength = 64

	maxRemainingLength int32 = (256 * 1024 * 1024) - 1 // 256 MB
)

const (
	maskConnAckSessionPresent byte = 0x01
)

// SubscriptionOptions as per [MQTT-3.8.3.1]. For v3.1.1 only the two QoS bits
// are meaningful
type SubscriptionOptions byte

// QoS quality of service
func (s SubscriptionOptions) QoS() QosType {
	return QosType(byte(s) & maskSubscriptionQoS)
}

// Provider is an interface defined for all MQTT packet types
type Provider interface {
	// Name returns a string representation of the packet type, e.g. "PUBLISH"
	Name() string

	// Type returns the Type of the packet
	Type() Type

	// ID returns the packet id, ErrNotSet if it has not been set
	ID() (IDType, error)

	// Encode writes the packet bytes into the provided buffer. It returns the
	// number of bytes encoded. On error the buffer content is undefined
	Encode([]byte) (int, error)

	// Size of the whole packet as it will appear on the wire
	Size() (int, error)

	// SetVersion set protocol version used by the packet
	SetVersion(v ProtocolVersion)

	// Version get protocol version used by the packet
	Version() ProtocolVersion

	// decode is implemented by header and parses the fixed header with
	// remaining length before delegating to decodeMessage
	decode([]byte) (int, error)

	// encodeMessage encodes the variable header and payload
	encodeMessage([]byte) (int, error)

	// decodeMessage decodes the variable header and payload
	decodeMessage([]byte) (int, error)

	// size returns the remaining length
	size() int

	getHeader() *header

	setType(t Type)
}

// New creates a new packet of the given type. An error is returned when either
// the protocol version or the packet type is not supported by this client role
func New(v ProtocolVersion, t Type) (Provider, error) {
	if _, ok := SupportedVersions[v]; !ok {
		return nil, ErrInvalidProtocolVersion
	}

	var m Provider

	switch t {
	case CONNECT:
		m = NewConnect(v)
	case CONNACK:
		m = NewConnAck(v)
	case PUBLISH:
		m = NewPublish(v)
	case PUBACK:
		m = NewPubAck(v)
	case SUBSCRIBE:
		m = NewSubscribe(v)
	case SUBACK:
		m = NewSubAck(v)
	case UNSUBSCRIBE:
		m = NewUnSubscribe(v)
	case UNSUBACK:
		m = NewUnSubAck(v)
	case PINGREQ:
		m = NewPingReq(v)
	case PINGRESP:
		m = NewPingResp(v)
	case DISCONNECT:
		m = NewDisconnect(v)
	default:
		return nil, ErrInvalidMessageType
	}

	return m, nil
}

// Encode encodes the packet into a newly allocated buffer
func Encode(p Provider) ([]byte, error) {
	var sz int
	var buf []byte
	var err error

	if sz, err = p.Size(); err == nil {
		buf = make([]byte, sz)
		_, err = p.Encode(buf)
	}

	return buf, err
}

// Decode parses one packet from buf and returns it together with the number of
// bytes consumed. ErrInsufficientDataSize reports that buf does not yet hold a
// whole packet; in that case the returned count is the expected total size when
// known. Any other error is a protocol violation
func Decode(v ProtocolVersion, buf []byte) (Provider, int, error) {
	if len(buf) < 2 {
		return nil, 0, ErrInsufficientDataSize
	}

	// [MQTT-2.2]
	mType := Type(buf[0] >> offsetPacketType)

	msg, err := New(v, mType)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if total, err = msg.decode(buf); err != nil {
		return nil, total, err
	}

	return msg, total, nil
}

// ValidTopic checks the topic to see if it's valid. Topic is considered valid
// if it's non-empty, within MaxTopicLength, valid UTF-8 and does not contain
// any wildcard characters
func ValidTopic(topic string) bool {
	return len(topic) > 0 &&
		len(topic) <= MaxTopicLength &&
		utf8.ValidString(topic) &&
		!strings.ContainsAny(topic, "#+")
}

// ValidTopicFilter checks a subscription topic filter. Wildcards are allowed
// here, the empty string is not
func ValidTopicFilter(filter string) bool {
	return len(filter) > 0 &&
		len(filter) <= MaxTopicLength &&
		utf8.ValidString(filter)
}
