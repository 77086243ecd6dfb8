package transport

import (
	"crypto/tls"
	"net"
	"time"
)

// ConfigTCP holds dial parameters for plain and TLS TCP connections
type ConfigTCP struct {
	// Host broker address in host:port form
	Host string

	// TLS enables an encrypted connection when set.
	// ServerName defaults to the host part of Host
	TLS *tls.Config

	// Timeout bounds connection establishment including the TLS
	// handshake. If not set then defaults to 5 seconds
	Timeout time.Duration

	// Stat optional transfer counters
	Stat BytesMetric
}

// DialTCP establishes a TCP connection to the broker, optionally
// wrapped in TLS
func DialTCP(config ConfigTCP) (Conn, error) {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialer := &net.Dialer{Timeout: timeout}

	if config.TLS != nil {
		cn, err := tls.DialWithDialer(dialer, "tcp", config.Host, config.TLS)
		if err != nil {
			return nil, err
		}

		return newConn(cn, config.Stat), nil
	}

	cn, err := dialer.Dial("tcp", config.Host)
	if err != nil {
		return nil, err
	}

	return newConn(cn, config.Stat), nil
}
