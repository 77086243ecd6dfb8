// Package metrics keeps lightweight transfer counters for the broker
// link. Everything is atomic, safe to update from the transport and
// read from the status endpoint.
package metrics

import (
	"sync/atomic"

	"github.com/glowbridge/glowbridge/transport"
)

// Stats point-in-time counter values
type Stats struct {
	BytesSent     uint64 `json:"bytesSent"`
	BytesReceived uint64 `json:"bytesReceived"`
	Connects      uint64 `json:"connects"`
	Drops         uint64 `json:"drops"`
}

// Bytes transfer counters. Implements transport.BytesMetric
type Bytes struct {
	sent uint64
	recv uint64
}

var _ transport.BytesMetric = (*Bytes)(nil)

// Sent accounts bytes written to the broker
func (b *Bytes) Sent(n uint64) {
	atomic.AddUint64(&b.sent, n)
}

// Received accounts bytes read from the broker
func (b *Bytes) Received(n uint64) {
	atomic.AddUint64(&b.recv, n)
}

// Provider collects all link counters
type Provider struct {
	bytes    Bytes
	connects uint64
	drops    uint64
}

// New allocates a counter set
func New() *Provider {
	return &Provider{}
}

// Bytes returns the transfer counters to hang off a transport
func (p *Provider) Bytes() *Bytes {
	return &p.bytes
}

// OnConnect accounts an established broker session
func (p *Provider) OnConnect() {
	atomic.AddUint64(&p.connects, 1)
}

// OnDrop accounts a lost broker session
func (p *Provider) OnDrop() {
	atomic.AddUint64(&p.drops, 1)
}

// Snapshot returns current counter values
func (p *Provider) Snapshot() Stats {
	return Stats{
		BytesSent:     atomic.LoadUint64(&p.bytes.sent),
		BytesReceived: atomic.LoadUint64(&p.bytes.recv),
		Connects:      atomic.LoadUint64(&p.connects),
		Drops:         atomic.LoadUint64(&p.drops),
	}
}
