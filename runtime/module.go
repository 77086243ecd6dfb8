// Package runtime owns the broker session. One goroutine drives a
// client.Client through connect, subscribe, poll and reconnect cycles and
// multiplexes it between registered modules. Other tasks never touch the
// client; they request publishes through a bounded outbox.
package runtime

import (
	"time"

	"github.com/glowbridge/glowbridge/packet"
)

// Message inbound publish handed to modules
type Message struct {
	Topic   string
	Payload []byte
	Retain  bool
}

// Outbox accepts publish requests from modules and other tasks
type Outbox interface {
	Publish(topic string, payload []byte, qos packet.QosType)
}

// Module is a unit of broker-facing behavior, e.g. the Home Assistant
// integration. All callbacks run on the runtime goroutine
type Module interface {
	// Topics registers the command topic filters the module wants to
	// receive
	Topics(add func(filter string))

	// OnStart runs after every (re)connect, typically announcing the
	// module's entities. Returns the delay until the first OnTick
	OnStart(out Outbox) time.Duration

	// OnTick runs periodically while connected. Returns the delay until
	// the next tick
	OnTick(out Outbox) time.Duration

	// OnMessage delivers an inbound publish. Modules filter by topic
	// themselves; every module sees every message
	OnMessage(msg Message)

	// Dirty reports that the module wants an immediate OnTick, e.g.
	// after a command changed state worth republishing
	Dirty() bool
}
