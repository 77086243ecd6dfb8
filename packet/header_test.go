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

func TestUvarint(t *testing.T) {
	v, n := uvarint([]byte{0x00})
	require.Equal(t, 1, n)
	require.Equal(t, uint32(0), v)

	v, n = uvarint([]byte{0x7F})
	require.Equal(t, 1, n)
	require.Equal(t, uint32(127), v)

	v, n = uvarint([]byte{0x80, 0x01})
	require.Equal(t, 2, n)
	require.Equal(t, uint32(128), v)

	v, n = uvarint([]byte{0xFF, 0xFF, 0xFF, 0x7F})
	require.Equal(t, 4, n)
	require.Equal(t, uint32(268435455), v)
}

// a remaining length must not span more than 4 bytes
func TestUvarintOverflow(t *testing.T) {
	_, n := uvarint([]byte{0x80, 0x80, 0x80, 0x80, 0x01})
	require.True(t, n < 0)
}

// non-minimal encodings are rejected
func TestUvarintNonMinimal(t *testing.T) {
	_, n := uvarint([]byte{0x80, 0x00})
	require.True(t, n < 0)

	_, n = uvarint([]byte{0xFF, 0x00})
	require.True(t, n < 0)
}

// a continuation bit with no following bytes means more data is needed
func TestUvarintShort(t *testing.T) {
	_, n := uvarint([]byte{0x80})
	require.Equal(t, 0, n)
}

// feeding any byte-wise split of a valid packet reports incomplete until
// all bytes are present, then decodes the exact packet
func TestDecodePartialInput(t *testing.T) {
	m, err := New(ProtocolV311, PUBLISH)
	require.NoError(t, err)

	msg := m.(*Publish)
	require.NoError(t, msg.Set("sensors/temp", []byte("25.3"), QoS1, false, false))
	require.NoError(t, msg.SetID(0x1234))

	full, err := Encode(msg)
	require.NoError(t, err)

	for cut := 0; cut < len(full); cut++ {
		_, _, err = Decode(ProtocolV311, full[:cut])
		require.Error(t, err, "prefix of %d bytes must not decode", cut)
		require.True(t, IsIncomplete(err), "prefix of %d bytes must report incomplete", cut)
	}

	m2, n, err := Decode(ProtocolV311, full)
	require.NoError(t, err)
	require.Equal(t, len(full), n)

	msg2 := m2.(*Publish)
	require.Equal(t, "sensors/temp", msg2.Topic())
	require.Equal(t, []byte("25.3"), msg2.Payload())

	id, err := msg2.ID()
	require.NoError(t, err)
	require.Equal(t, IDType(0x1234), id)
}

// a declared remaining length beyond the codec bound is malformed, not a
// request for more bytes
func TestDecodeOversizedRemainingLength(t *testing.T) {
	buf := []byte{
		byte(PUBLISH << 4),
		0xFF, 0xFF, 0x01, // 32767 + ... -> greater than MaxPacketSize
	}

	_, _, err := Decode(ProtocolV311, buf)
	require.Error(t, err)
	require.False(t, IsIncomplete(err), "Oversized length must be malformed, not incomplete")
}

// round trip every client-role packet type through encode and decode
func TestRoundTripAllTypes(t *testing.T) {
	build := func(typ Type) Provider {
		m, err := New(ProtocolV311, typ)
		require.NoError(t, err)

		switch p := m.(type) {
		case *Connect:
			require.NoError(t, p.SetClientID([]byte("glowbridge")))
			p.SetKeepAlive(15)
			p.SetClean(true)
		case *ConnAck:
			require.NoError(t, p.SetReturnCode(CodeSuccess))
		case *Publish:
			require.NoError(t, p.Set("a/b", []byte("x"), QoS1, false, false))
			require.NoError(t, p.SetID(2))
		case *PubAck:
			require.NoError(t, p.SetID(2))
		case *Subscribe:
			require.NoError(t, p.SetID(3))
			require.NoError(t, p.AddTopic("a/b", QoS1))
		case *SubAck:
			require.NoError(t, p.SetID(3))
			require.NoError(t, p.AddReturnCode(QoS1))
		case *UnSubscribe:
			require.NoError(t, p.SetID(4))
			require.NoError(t, p.AddTopic("a/b"))
		case *UnSubAck:
			require.NoError(t, p.SetID(4))
		}

		return m
	}

	for _, typ := range []Type{
		CONNECT, CONNACK, PUBLISH, PUBACK, SUBSCRIBE, SUBACK,
		UNSUBSCRIBE, UNSUBACK, PINGREQ, PINGRESP, DISCONNECT,
	} {
		m := build(typ)

		buf, err := Encode(m)
		require.NoError(t, err, "encode %s", typ.Name())

		m2, n, err := Decode(ProtocolV311, buf)
		require.NoError(t, err, "decode %s", typ.Name())
		require.Equal(t, len(buf), n, "consumed %s", typ.Name())
		require.Equal(t, typ, m2.Type(), "type %s", typ.Name())

		buf2, err := Encode(m2)
		require.NoError(t, err, "re-encode %s", typ.Name())
		require.Equal(t, buf, buf2, "byte equality %s", typ.Name())
	}
}

// qos2-only packet types are not part of this client role
func TestNewUnsupportedTypes(t *testing.T) {
	for _, typ := range []Type{RESERVED, PUBREC, PUBREL, PUBCOMP, AUTH} {
		_, err := New(ProtocolV311, typ)
		require.EqualError(t, err, ErrInvalidMessageType.Error())
	}
}

func TestNewUnsupportedVersion(t *testing.T) {
	_, err := New(ProtocolVersion(0x5), CONNECT)
	require.EqualError(t, err, ErrInvalidProtocolVersion.Error())
}
