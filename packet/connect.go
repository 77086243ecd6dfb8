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

import (
	"encoding/binary"
	"unicode/utf8"
)

// Connect After a Network Connection is established by a Client to a Server, the first Packet
// sent from the Client to the Server MUST be a CONNECT Packet [MQTT-3.1.0-1].
// A Client can only send the CONNECT Packet once over a Network Connection. The Server
// MUST process a second CONNECT Packet sent from a Client as a protocol violation and
// disconnect the Client [MQTT-3.1.0-2].
type Connect struct {
	header

	keepAlive uint16
	connFlags byte

	clientID []byte
	username []byte
	password []byte

	will struct {
		topic   string
		payload []byte
	}
}

var _ Provider = (*Connect)(nil)

// NewConnect creates a new CONNECT packet
func NewConnect(v ProtocolVersion) *Connect {
	p := &Connect{}
	p.init(CONNECT, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

// IsClean returns the bit that specifies the handling of the Session state.
// The Client and Server can store Session state to enable reliable messaging to
// continue across a sequence of Network Connections. This bit is used to control
// the lifetime of the Session state
func (msg *Connect) IsClean() bool {
	return (msg.connFlags & maskConnFlagClean) != 0
}

// SetClean sets the bit that specifies the handling of the Session state
func (msg *Connect) SetClean(v bool) {
	if v {
		msg.connFlags |= maskConnFlagClean
	} else {
		msg.connFlags &= ^maskConnFlagClean
	}
}

// WillQos returns the QoS level to be used when publishing the Will Message
func (msg *Connect) WillQos() QosType {
	return QosType((msg.connFlags & maskConnFlagWillQos) >> offsetConnFlagWillQoS)
}

// WillRetain returns the bit specifying if the Will Message is to be Retained when it
// is published
func (msg *Connect) WillRetain() bool {
	return (msg.connFlags & maskConnFlagWillRetain) != 0
}

// IsWillFlag returns the bit that specifies whether a Will Message should be stored
// on the server. If the Will Flag is set to 1 this indicates that, if the Connect
// request is accepted, a Will Message MUST be stored on the Server and associated
// with the Network Connection
func (msg *Connect) IsWillFlag() bool {
	return (msg.connFlags & maskConnFlagWill) != 0
}

// Will returns the will topic and payload
func (msg *Connect) Will() (string, []byte) {
	return msg.will.topic, msg.will.payload
}

// SetWill state of message with provided topic and payload
func (msg *Connect) SetWill(t string, p []byte, qos QosType, retain bool) error {
	if !ValidTopic(t) {
		return ErrInvalidTopic
	}

	if !qos.IsValid() {
		return ErrInvalidQoS
	}

	msg.connFlags |= maskConnFlagWill
	if retain {
		msg.connFlags |= maskConnFlagWillRetain
	} else {
		msg.connFlags &= ^maskConnFlagWillRetain
	}

	msg.connFlags &= ^maskConnFlagWillQos
	msg.connFlags |= byte(qos) << offsetConnFlagWillQoS

	msg.will.topic = t
	msg.will.payload = p

	return nil
}

// ResetWill reset will state of message
func (msg *Connect) ResetWill() {
	msg.connFlags &= ^maskConnFlagWill
	msg.connFlags &= ^maskConnFlagWillQos
	msg.connFlags &= ^maskConnFlagWillRetain

	msg.will.topic = ""
	msg.will.payload = nil
}

// KeepAlive returns a time interval measured in seconds. Expressed as a 16-bit word,
// it is the maximum time interval that is permitted to elapse between the point at
// which the Client finishes transmitting one Control Packet and the point it starts
// sending the next
func (msg *Connect) KeepAlive() uint16 {
	return msg.keepAlive
}

// SetKeepAlive sets the time interval in which the server should keep the connection
// alive
func (msg *Connect) SetKeepAlive(v uint16) {
	msg.keepAlive = v
}

// ClientID returns an ID that identifies the Client to the Server. Each Client
// connecting to the Server has a unique ClientID
func (msg *Connect) ClientID() []byte {
	return msg.clientID
}

// SetClientID sets an ID that identifies the Client to the Server
func (msg *Connect) SetClientID(v []byte) error {
	if len(v) > MaxClientIDLength || !utf8.Valid(v) {
		return ErrInvalidArgs
	}

	msg.clientID = v

	return nil
}

// Credentials returns user and password
func (msg *Connect) Credentials() ([]byte, []byte) {
	return msg.username, msg.password
}

// SetCredentials set username and password
func (msg *Connect) SetCredentials(u []byte, p []byte) error {
	msg.connFlags &= ^maskConnFlagUsername
	msg.connFlags &= ^maskConnFlagPassword

	// MQTT 3.1.1 does not allow password without user name [MQTT-3.1.2-22]
	if len(u) == 0 && len(p) != 0 {
		return ErrInvalidArgs
	}

	if len(u) != 0 {
		if !utf8.Valid(u) {
			return ErrInvalidUtf8
		}

		msg.connFlags |= maskConnFlagUsername
		msg.username = u
	}

	if len(p) != 0 {
		msg.connFlags |= maskConnFlagPassword
		msg.password = p
	}

	return nil
}

// decodeMessage decodes the variable header and payload
func (msg *Connect) decodeMessage(src []byte) (int, error) {
	var err error
	var n int
	total := 0

	var protoName []byte

	if protoName, n, err = ReadLPBytes(src[total:]); err != nil {
		return total + n, err
	}
	total += n

	if len(src[total:]) < 1 {
		return total, ErrMalformedStream
	}

	msg.version = ProtocolVersion(src[total])

	if verStr, ok := SupportedVersions[msg.version]; !ok {
		return total, ErrInvalidProtocolVersion
	} else if verStr != string(protoName) {
		return total, ErrInvalidProtocolName
	}
	total++

	if len(src[total:]) < 3 {
		return total, ErrMalformedStream
	}

	msg.connFlags = src[total]

	// [MQTT-3.1.2-3]
	if msg.connFlags&maskConnFlagReserved != 0 {
		return total, ErrMalformedStream
	}

	// [MQTT-3.1.2-14]
	if !msg.IsWillFlag() && (msg.WillQos() != QoS0 || msg.WillRetain()) {
		return total, ErrMalformedStream
	}

	// [MQTT-3.1.2-22]
	if msg.connFlags&maskConnFlagUsername == 0 && msg.connFlags&maskConnFlagPassword != 0 {
		return total, ErrMalformedStream
	}
	total++

	msg.keepAlive = binary.BigEndian.Uint16(src[total:])
	total += 2

	if msg.clientID, n, err = ReadLPBytes(src[total:]); err != nil {
		return total + n, err
	}
	total += n

	if len(msg.clientID) > MaxClientIDLength || !utf8.Valid(msg.clientID) {
		return total, ErrMalformedStream
	}

	if msg.IsWillFlag() {
		var willTopic []byte

		if willTopic, n, err = ReadLPBytes(src[total:]); err != nil {
			return total + n, err
		}
		total += n

		if !ValidTopic(string(willTopic)) {
			return total, ErrInvalidTopic
		}

		msg.will.topic = string(willTopic)

		if msg.will.payload, n, err = ReadLPBytes(src[total:]); err != nil {
			return total + n, err
		}
		total += n
	}

	if msg.connFlags&maskConnFlagUsername != 0 {
		if msg.username, n, err = ReadLPBytes(src[total:]); err != nil {
			return total + n, err
		}
		total += n
	}

	if msg.connFlags&maskConnFlagPassword != 0 {
		if msg.password, n, err = ReadLPBytes(src[total:]); err != nil {
			return total + n, err
		}
		total += n
	}

	return total, nil
}

func (msg *Connect) encodeMessage(dst []byte) (int, error) {
	var err error
	var n int
	total := 0

	if n, err = WriteLPBytes(dst[total:], []byte(SupportedVersions[msg.version])); err != nil {
		return total + n, err
	}
	total += n

	dst[total] = byte(msg.version)
	total++

	dst[total] = msg.connFlags
	total++

	binary.BigEndian.PutUint16(dst[total:], msg.keepAlive)
	total += 2

	if n, err = WriteLPBytes(dst[total:], msg.clientID); err != nil {
		return total + n, err
	}
	total += n

	if msg.IsWillFlag() {
		if n, err = WriteLPBytes(dst[total:], []byte(msg.will.topic)); err != nil {
			return total + n, err
		}
		total += n

		if n, err = WriteLPBytes(dst[total:], msg.will.payload); err != nil {
			return total + n, err
		}
		total += n
	}

	if msg.connFlags&maskConnFlagUsername != 0 {
		if n, err = WriteLPBytes(dst[total:], msg.username); err != nil {
			return total + n, err
		}
		total += n
	}

	if msg.connFlags&maskConnFlagPassword != 0 {
		if n, err = WriteLPBytes(dst[total:], msg.password); err != nil {
			return total + n, err
		}
		total += n
	}

	return total, nil
}

func (msg *Connect) size() int {
	// protocol name + version byte + connect flags + keep alive
	total := 2 + len(SupportedVersions[msg.version]) + 1 + 1 + 2

	total += 2 + len(msg.clientID)

	if msg.IsWillFlag() {
		total += 2 + len(msg.will.topic) + 2 + len(msg.will.payload)
	}

	if msg.connFlags&maskConnFlagUsername != 0 {
		total += 2 + len(msg.username)
	}

	if msg.connFlags&maskConnFlagPassword != 0 {
		total += 2 + len(msg.password)
	}

	return total
}
