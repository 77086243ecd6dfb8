package client

import "time"

// Default operation bounds applied when the corresponding Options field is
// left zero
const (
	DefaultKeepAlive      = 30 * time.Second
	DefaultConnectTimeout = 5 * time.Second
	DefaultRetryInterval  = 5 * time.Second
	DefaultRetryLimit     = 3
)

// Options configure a client once at construction. The client never
// mutates them
type Options struct {
	// ClientID identifies the session to the broker. Must not be empty
	ClientID string

	// Username and Password are optional credentials. A password without a
	// username is rejected by the codec
	Username string
	Password string

	// CleanSession requests a fresh broker-side session on connect
	CleanSession bool

	// KeepAlive silent interval after which a PINGREQ is sent. Two silent
	// intervals with no broker traffic at all mean connection loss
	KeepAlive time.Duration

	// ConnectTimeout bounds the wait for CONNACK
	ConnectTimeout time.Duration

	// RetryInterval delay before an unacknowledged QoS 1 publish is
	// re-sent with the DUP flag
	RetryInterval time.Duration

	// RetryLimit number of re-sends before delivery is reported failed
	RetryLimit int
}

func (o Options) withDefaults() Options {
	if o.KeepAlive == 0 {
		o.KeepAlive = DefaultKeepAlive
	}

	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	if o.RetryInterval == 0 {
		o.RetryInterval = DefaultRetryInterval
	}

	if o.RetryLimit == 0 {
		o.RetryLimit = DefaultRetryLimit
	}

	return o
}
