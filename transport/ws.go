package transport

import (
	"crypto/tls"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// ConfigWS holds dial parameters for WebSocket connections
type ConfigWS struct {
	// URL broker endpoint, e.g. ws://host:port/mqtt or wss://...
	URL string

	// TLS applies to wss endpoints
	TLS *tls.Config

	// Timeout bounds the WebSocket handshake.
	// If not set then defaults to 5 seconds
	Timeout time.Duration

	// Stat optional transfer counters
	Stat BytesMetric
}

// connWS adapts a WebSocket connection to the Conn byte-stream
// contract. MQTT frames travel in binary messages; one message may hold
// several frames and a frame may span messages, so reads drain the
// current message reader before requesting the next
type connWS struct {
	conn *websocket.Conn
	stat BytesMetric
	prev io.Reader
}

var _ Conn = (*connWS)(nil)

// DialWS establishes a WebSocket connection to the broker using the
// mqtt subprotocol
func DialWS(config ConfigWS) (Conn, error) {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialer := websocket.Dialer{
		Subprotocols:     []string{"mqtt"},
		TLSClientConfig:  config.TLS,
		HandshakeTimeout: timeout,
	}

	cn, _, err := dialer.Dial(config.URL, nil)
	if err != nil {
		return nil, err
	}

	return &connWS{
		conn: cn,
		stat: config.Stat,
	}, nil
}

func (c *connWS) Read(b []byte) (int, error) {
	if c.prev != nil {
		total, err := c.prev.Read(b)
		if err != nil {
			c.prev = nil
		}

		if total > 0 {
			if c.stat != nil {
				c.stat.Received(uint64(total))
			}
			return total, nil
		}
	}

	mType, rd, err := c.conn.NextReader()
	if err != nil {
		if IsTimeout(err) {
			return 0, err
		}
		return 0, io.EOF
	}

	switch mType {
	case websocket.CloseMessage:
		return 0, io.EOF
	case websocket.TextMessage, websocket.PingMessage, websocket.PongMessage:
		return 0, nil
	}

	c.prev = rd

	total, err := c.prev.Read(b)
	if err != nil {
		c.prev = nil
	}

	if total > 0 && c.stat != nil {
		c.stat.Received(uint64(total))
	}

	return total, nil
}

func (c *connWS) Write(b []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}

	if c.stat != nil {
		c.stat.Sent(uint64(len(b)))
	}

	return len(b), nil
}

func (c *connWS) Close() error {
	return c.conn.Close()
}

func (c *connWS) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *connWS) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}
