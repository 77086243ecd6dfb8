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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubAckMessageFields(t *testing.T) {
	m, err := New(ProtocolV311, SUBACK)
	require.NoError(t, err)

	msg, ok := m.(*SubAck)
	require.True(t, ok, "Couldn't cast message type")

	require.NoError(t, msg.SetID(100))

	id, err := msg.ID()
	require.NoError(t, err)
	require.Equal(t, IDType(100), id)

	require.NoError(t, msg.AddReturnCode(QoS1))
	require.Error(t, msg.AddReturnCode(QosType(0x11)))
}

func TestSubAckMessageDecode(t *testing.T) {
	buf := []byte{
		byte(SUBACK << 4),
		5,
		0,    // packet ID MSB (0)
		7,    // packet ID LSB (7)
		0,    // return code 1
		1,    // return code 2
		0x80, // return code 3
	}

	m, n, err := Decode(ProtocolV311, buf)
	require.NoError(t, err, "Error decoding message.")

	msg, ok := m.(*SubAck)
	require.Equal(t, true, ok, "Invalid message type")

	require.Equal(t, len(buf), n, "Error decoding message.")
	require.Equal(t, []QosType{QoS0, QoS1, QosFailure}, msg.ReturnCodes())
}

// return code 0x81 is not a valid granted qos
func TestSubAckMessageDecode2(t *testing.T) {
	buf := []byte{
		byte(SUBACK << 4),
		4,
		0,
		7,
		0x81, // <- invalid
		0x80,
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
	require.False(t, IsIncomplete(err))
}

// suback without return codes is malformed
func TestSubAckMessageDecode3(t *testing.T) {
	buf := []byte{
		byte(SUBACK << 4),
		2,
		0,
		7,
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
}

func TestSubAckMessageEncode(t *testing.T) {
	expected := []byte{
		byte(SUBACK << 4),
		4,
		0,
		7,
		0,
		1,
	}

	m, err := New(ProtocolV311, SUBACK)
	require.NoError(t, err)

	msg := m.(*SubAck)
	require.NoError(t, msg.SetID(7))
	require.NoError(t, msg.AddReturnCodes([]QosType{QoS0, QoS1}))

	buf, err := Encode(msg)
	require.NoError(t, err)
	require.Equal(t, expected, buf)
}
