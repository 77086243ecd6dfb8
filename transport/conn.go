// Package transport provides duplex byte-stream connections to an MQTT
// broker. The client is polymorphic over the Conn interface and never
// depends on a concrete network type, so transports other than plain TCP
// (TLS, WebSocket) plug in without touching session logic.
package transport

import (
	"net"
	"time"
)

// Conn is a duplex byte stream with deadline support. Read returning
// (0, io.EOF) signals a connection closed by the peer. A deadline
// expiry surfaces as an error for which IsTimeout reports true
type Conn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// BytesMetric receives transfer counters from a wrapped connection
type BytesMetric interface {
	Sent(n uint64)
	Received(n uint64)
}

// conn wraps net.Conn to encapsulate bytes statistic
type conn struct {
	net.Conn
	stat BytesMetric
}

var _ Conn = (*conn)(nil)

func newConn(cn net.Conn, stat BytesMetric) *conn {
	return &conn{
		Conn: cn,
		stat: stat,
	}
}

func (c *conn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if c.stat != nil {
		c.stat.Received(uint64(n))
	}

	return n, err
}

func (c *conn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if c.stat != nil {
		c.stat.Sent(uint64(n))
	}

	return n, err
}

// IsTimeout reports whether err is a deadline expiry rather than a
// connection failure. Callers use it to tell an idle read apart from a
// broken transport
func IsTimeout(err error) bool {
	nErr, ok := err.(net.Error)
	return ok && nErr.Timeout()
}
