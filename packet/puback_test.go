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

func TestPubAckMessageDecode(t *testing.T) {
	buf := []byte{
		byte(PUBACK << 4),
		2,
		0, // packet ID MSB (0)
		7, // packet ID LSB (7)
	}

	m, n, err := Decode(ProtocolV311, buf)
	require.NoError(t, err, "Error decoding message.")

	msg, ok := m.(*PubAck)
	require.Equal(t, true, ok, "Invalid message type")

	require.Equal(t, len(buf), n, "Error decoding message.")

	id, err := msg.ID()
	require.NoError(t, err)
	require.Equal(t, IDType(7), id)
}

// puback with a zero packet id is malformed
func TestPubAckMessageDecode2(t *testing.T) {
	buf := []byte{
		byte(PUBACK << 4),
		2,
		0,
		0,
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
	require.False(t, IsIncomplete(err))
}

// puback with extra bytes is malformed
func TestPubAckMessageDecode3(t *testing.T) {
	buf := []byte{
		byte(PUBACK << 4),
		3,
		0,
		7,
		0,
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
}

func TestPubAckMessageEncode(t *testing.T) {
	expected := []byte{
		byte(PUBACK << 4),
		2,
		0,
		7,
	}

	m, err := New(ProtocolV311, PUBACK)
	require.NoError(t, err)

	msg := m.(*PubAck)
	require.NoError(t, msg.SetID(7))

	buf, err := Encode(msg)
	require.NoError(t, err)
	require.Equal(t, expected, buf)
}

// encoding without a packet id must fail
func TestPubAckMessageEncode2(t *testing.T) {
	m, err := New(ProtocolV311, PUBACK)
	require.NoError(t, err)

	dst := make([]byte, 4)
	_, err = m.Encode(dst)
	require.Error(t, err)
}
