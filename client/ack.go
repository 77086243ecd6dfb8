package client

import (
	"time"

	"github.com/glowbridge/glowbridge/packet"
)

// maxInFlight pending acknowledgement slots per session. Insertion beyond
// this bound is ErrSessionBusy, never a silent drop
const maxInFlight = 8

type entryKind uint8

const (
	entryFree entryKind = iota
	entryPublish
	entrySubscribe
	entryUnsubscribe
)

// pendingEntry minimal state to re-send or identify an unacknowledged
// request. Topic and payload reference caller-owned memory
type pendingEntry struct {
	kind    entryKind
	id      packet.IDType
	topic   string
	payload []byte
	qos     packet.QosType
	retries int
	retryAt time.Time
}

// pendingTable is fixed-capacity storage for in-flight requests addressed
// by linear scan. Eight slots keep the scan cheaper than any map and the
// memory bound explicit
type pendingTable struct {
	slots  [maxInFlight]pendingEntry
	count  int
	nextID uint16
}

func (t *pendingTable) reset() {
	for i := range t.slots {
		t.slots[i] = pendingEntry{}
	}
	t.count = 0
}

func (t *pendingTable) full() bool {
	return t.count == len(t.slots)
}

// allocID returns the next non-zero packet id not used by a live entry.
// The counter wraps at 65535; an id is never reused while its entry is
// pending
func (t *pendingTable) allocID() packet.IDType {
	for {
		t.nextID++
		if t.nextID == 0 {
			t.nextID = 1
		}

		id := packet.IDType(t.nextID)
		if t.byID(id) == nil {
			return id
		}
	}
}

func (t *pendingTable) byID(id packet.IDType) *pendingEntry {
	for i := range t.slots {
		if t.slots[i].kind != entryFree && t.slots[i].id == id {
			return &t.slots[i]
		}
	}

	return nil
}

// insert claims a free slot and a fresh packet id. Caller must check
// full() first
func (t *pendingTable) insert(e pendingEntry) packet.IDType {
	for i := range t.slots {
		if t.slots[i].kind == entryFree {
			e.id = t.allocID()
			t.slots[i] = e
			t.count++

			return e.id
		}
	}

	// unreachable when callers honor full()
	return 0
}

// take removes the entry with the given id and returns a copy of it
func (t *pendingTable) take(id packet.IDType) (pendingEntry, bool) {
	if e := t.byID(id); e != nil {
		out := *e
		*e = pendingEntry{}
		t.count--

		return out, true
	}

	return pendingEntry{}, false
}

func (t *pendingTable) release(e *pendingEntry) {
	*e = pendingEntry{}
	t.count--
}

// nextRetry earliest retry deadline among publish entries, zero time when
// none is armed
func (t *pendingTable) nextRetry() time.Time {
	var min time.Time

	for i := range t.slots {
		e := &t.slots[i]
		if e.kind != entryPublish || e.retryAt.IsZero() {
			continue
		}

		if min.IsZero() || e.retryAt.Before(min) {
			min = e.retryAt
		}
	}

	return min
}

// expired first publish entry whose retry deadline has passed
func (t *pendingTable) expired(now time.Time) *pendingEntry {
	for i := range t.slots {
		e := &t.slots[i]
		if e.kind == entryPublish && !e.retryAt.IsZero() && !e.retryAt.After(now) {
			return e
		}
	}

	return nil
}
