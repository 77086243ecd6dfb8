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

// Type is the type representing the MQTT packet types. In the MQTT spec,
// MQTT control packet type is represented as a 4-bit unsigned value.
type Type byte

// IDType as per [MQTT-2.2.1]
type IDType uint16

const (
	// RESERVED is a reserved value and should be considered an invalid message type
	RESERVED Type = iota

	// CONNECT Client request to connect to Server
	CONNECT

	// CONNACK Connect acknowledgement
	CONNACK

	// PUBLISH Client to Server, or Server to Client. Publish message
	PUBLISH

	// PUBACK Publish acknowledgement for QoS 1 messages
	PUBACK

	// PUBREC Publish received for QoS 2 messages. Not used by this client role
	PUBREC

	// PUBREL Publish release for QoS 2 messages. Not used by this client role
	PUBREL

	// PUBCOMP Publish complete for QoS 2 messages. Not used by this client role
	PUBCOMP

	// SUBSCRIBE Client to Server. Client subscribe request
	SUBSCRIBE

	// SUBACK Server to Client. Subscribe acknowledgement
	SUBACK

	// UNSUBSCRIBE Client to Server. Unsubscribe request
	UNSUBSCRIBE

	// UNSUBACK Server to Client. Unsubscribe acknowledgement
	UNSUBACK

	// PINGREQ Client to Server. PING request
	PINGREQ

	// PINGRESP Server to Client. PING response
	PINGRESP

	// DISCONNECT Client to Server. Client is disconnecting
	DISCONNECT

	// AUTH v5.0 authentication exchange. Not used by this client role
	AUTH
)

var typeName = [AUTH + 1]string{
	"RESERVED",
	"CONNECT",
	"CONNACK",
	"PUBLISH",
	"PUBACK",
	"PUBREC",
	"PUBREL",
	"PUBCOMP",
	"SUBSCRIBE",
	"SUBACK",
	"UNSUBSCRIBE",
	"UNSUBACK",
	"PINGREQ",
	"PINGRESP",
	"DISCONNECT",
	"AUTH",
}

var typeDefaultFlags = [AUTH + 1]byte{
	0, // RESERVED
	0, // CONNECT
	0, // CONNACK
	0, // PUBLISH
	0, // PUBACK
	0, // PUBREC
	2, // PUBREL
	0, // PUBCOMP
	2, // SUBSCRIBE
	0, // SUBACK
	2, // UNSUBSCRIBE
	0, // UNSUBACK
	0, // PINGREQ
	0, // PINGRESP
	0, // DISCONNECT
	0, // AUTH
}

// Name returns the name of the message type. It should correspond to one of the
// constant values defined for MessageType. It is statically defined and cannot
// be changed
func (t Type) Name() string {
	if t > AUTH {
		return "UNKNOWN"
	}

	return typeName[t]
}

// DefaultFlags returns the default flag values for the message type, as defined by
// the MQTT spec, except for PUBLISH
func (t Type) DefaultFlags() byte {
	if t > AUTH {
		return 0
	}

	return typeDefaultFlags[t]
}

// Valid returns a boolean indicating whether the message type is valid or not
func (t Type) Valid() bool {
	return t > RESERVED && t < AUTH
}
