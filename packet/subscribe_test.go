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

func TestSubscribeMessageFields(t *testing.T) {
	m, err := New(ProtocolV311, SUBSCRIBE)
	require.NoError(t, err)

	msg, ok := m.(*Subscribe)
	require.True(t, ok, "Couldn't cast message type")

	require.NoError(t, msg.SetID(100))

	id, err := msg.ID()
	require.NoError(t, err)
	require.Equal(t, IDType(100), id)

	require.NoError(t, msg.AddTopic("device/commands", QoS1))
	require.NoError(t, msg.AddTopic("device/+/set", QoS0), "Wildcards are valid in a filter")
	require.Error(t, msg.AddTopic("", QoS0))

	require.Equal(t, 2, len(msg.Topics()))
}

func TestSubscribeMessageDecode(t *testing.T) {
	buf := []byte{
		byte(SUBSCRIBE<<4) | 2,
		36,
		0,   // packet ID MSB (0)
		7,   // packet ID LSB (7)
		0,   // topic name MSB (0)
		7,   // topic name LSB (7)
		'g', 'l', 'o', 'w', '/', 'a', 'b',
		0, // QoS
		0, // topic name MSB (0)
		8, // topic name LSB (8)
		'/', 'a', '/', 'b', '/', '#', '/', 'c',
		1, // QoS
		0, // topic name MSB (0)
		10,
		'/', 'a', '/', 'b', '/', '#', '/', 'c', 'd', 'd',
		1, // QoS
	}

	m, n, err := Decode(ProtocolV311, buf)
	require.NoError(t, err, "Error decoding message.")

	msg, ok := m.(*Subscribe)
	require.Equal(t, true, ok, "Invalid message type")

	require.Equal(t, len(buf), n, "Error decoding message.")
	require.Equal(t, 3, len(msg.Topics()), "Error decoding topics.")

	var topics []string
	var ops []QosType
	msg.ForEachTopic(func(s string, o SubscriptionOptions) {
		topics = append(topics, s)
		ops = append(ops, o.QoS())
	})

	require.Equal(t, []string{"glow/ab", "/a/b/#/c", "/a/b/#/cdd"}, topics)
	require.Equal(t, []QosType{QoS0, QoS1, QoS1}, ops)
}

// a subscribe with no topics is a protocol violation [MQTT-3.8.3-3]
func TestSubscribeMessageDecode2(t *testing.T) {
	buf := []byte{
		byte(SUBSCRIBE<<4) | 2,
		2,
		0, // packet ID MSB (0)
		7, // packet ID LSB (7)
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
}

// a subscription option with reserved bits set is malformed
func TestSubscribeMessageDecode3(t *testing.T) {
	buf := []byte{
		byte(SUBSCRIBE<<4) | 2,
		12,
		0,
		7,
		0,
		7,
		'g', 'l', 'o', 'w', '/', 'a', 'b',
		0x44, // <- reserved bits
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
	require.False(t, IsIncomplete(err))
}

// subscribe with wrong fixed header flags is malformed [MQTT-3.8.1-1]
func TestSubscribeMessageDecode4(t *testing.T) {
	buf := []byte{
		byte(SUBSCRIBE << 4), // flags must be 0010
		12,
		0,
		7,
		0,
		7,
		'g', 'l', 'o', 'w', '/', 'a', 'b',
		0,
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
}

func TestSubscribeMessageEncode(t *testing.T) {
	expected := []byte{
		byte(SUBSCRIBE<<4) | 2,
		12,
		0,
		7,
		0,
		7,
		'g', 'l', 'o', 'w', '/', 'a', 'b',
		1,
	}

	m, err := New(ProtocolV311, SUBSCRIBE)
	require.NoError(t, err)

	msg := m.(*Subscribe)
	require.NoError(t, msg.SetID(7))
	require.NoError(t, msg.AddTopic("glow/ab", QoS1))

	buf, err := Encode(msg)
	require.NoError(t, err)
	require.Equal(t, expected, buf)
}

func TestSubscribeDecodeEncodeEquiv(t *testing.T) {
	buf := []byte{
		byte(SUBSCRIBE<<4) | 2,
		12,
		0,
		7,
		0,
		7,
		'g', 'l', 'o', 'w', '/', 'a', 'b',
		1,
	}

	m, n, err := Decode(ProtocolV311, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	dst := make([]byte, 100)
	n2, err := m.Encode(dst)
	require.NoError(t, err)
	require.Equal(t, buf, dst[:n2])
}
