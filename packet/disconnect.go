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

// Disconnect The DISCONNECT Packet is the final Control Packet sent from the Client to the Server.
// It indicates that the Client is disconnecting cleanly
type Disconnect struct {
	header
}

var _ Provider = (*Disconnect)(nil)

// NewDisconnect creates a new DISCONNECT packet
func NewDisconnect(v ProtocolVersion) *Disconnect {
	p := &Disconnect{}
	p.init(DISCONNECT, v, p.size, p.encodeMessage, p.decodeMessage)

	return p
}

func (msg *Disconnect) decodeMessage(src []byte) (int, error) {
	if len(src) != 0 {
		return 0, ErrMalformedStream
	}

	return 0, nil
}

func (msg *Disconnect) encodeMessage(dst []byte) (int, error) {
	return 0, nil
}

func (msg *Disconnect) size() int {
	return 0
}
