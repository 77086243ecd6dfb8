// Package client implements an MQTT v3.1.1 client-role session: connect,
// publish with QoS 0/1, subscribe, keep-alive and poll-driven event
// delivery, over any transport.Conn.
//
// The client is a single-owner state machine. It holds no locks and starts
// no goroutines; exactly one caller drives it, advancing the session with
// Poll. All buffers are fixed-size and owned by the Client for its whole
// lifetime. It performs no logging, everything surfaces through return
// values and events.
package client

import (
	"context"
	"io"
	"time"

	"github.com/glowbridge/glowbridge/packet"
	"github.com/glowbridge/glowbridge/transport"
)

// Client drives one MQTT session at a time. Nothing but Options survives a
// transition through Disconnected; the pending table and buffers are reset
// on every connect and every failure
type Client struct {
	opts Options

	conn  transport.Conn
	state ConnectionState

	pending pendingTable

	// receive buffer sized for one maximum packet plus its fixed header.
	// rxOff marks consumed bytes; compaction waits until the next
	// transport read so a decoded frame's aliased fields stay intact
	// while the caller holds the event
	rx    [packet.MaxPacketSize + 4]byte
	rxOff int
	rxLen int
	tx    [packet.MaxPacketSize + 4]byte

	// keep-alive: deadline recomputed on every successful transmit. A
	// PINGREQ goes out when it expires; a second expiry with no inbound
	// traffic at all since the ping means the connection is gone
	pingAt          time.Time
	pingOutstanding bool
}

// New creates a disconnected client. The transport is supplied per session
// by Connect so the same client can reconnect over a fresh connection
func New(opts Options) *Client {
	return &Client{
		opts: opts.withDefaults(),
	}
}

// State reports the current session state
func (c *Client) State() ConnectionState {
	return c.state
}

// Connect establishes a session over conn. Valid only from Disconnected.
// On any failure the client ends up Disconnected with the transport
// closed; the error kind tells a refused connect (*RejectedError) from a
// silent broker (ErrConnectTimeout) from an I/O failure (*TransportError)
// so the caller can pick a retry strategy.
//
// Cancelling ctx abandons the attempt wherever it is; the caller must
// Disconnect before reusing the client
func (c *Client) Connect(ctx context.Context, conn transport.Conn) error {
	if c.state != StateDisconnected {
		return ErrAlreadyConnected
	}

	m := packet.NewConnect(packet.ProtocolV311)
	if err := m.SetClientID([]byte(c.opts.ClientID)); err != nil {
		return err
	}

	m.SetClean(c.opts.CleanSession)
	m.SetKeepAlive(uint16(c.opts.KeepAlive / time.Second))

	if c.opts.Username != "" {
		if err := m.SetCredentials([]byte(c.opts.Username), []byte(c.opts.Password)); err != nil {
			return err
		}
	}

	c.conn = conn
	c.pending.reset()
	c.rxOff = 0
	c.rxLen = 0
	c.pingOutstanding = false

	if err := c.send(m); err != nil {
		c.drop()
		return &TransportError{Reason: err}
	}

	c.state = StateConnecting

	deadline := time.Now().Add(c.opts.ConnectTimeout)

	req, err := c.readPacket(ctx, deadline)
	switch {
	case err == nil:
	case err == errDeadline:
		c.drop()
		return ErrConnectTimeout
	case err == ctx.Err() && err != nil:
		return err
	default:
		c.drop()
		return c.classify(err)
	}

	resp, ok := req.(*packet.ConnAck)
	if !ok {
		c.drop()
		return &ProtocolError{Reason: packet.ErrInvalidMessageType}
	}

	if code := resp.ReturnCode(); code != packet.CodeSuccess {
		c.drop()
		return &RejectedError{Code: code}
	}

	c.state = StateConnected
	c.touchKeepAlive()

	return nil
}

// Publish sends a message. QoS 0 returns once the frame is handed to the
// transport. QoS 1 claims a pending slot and returns once the send
// completed; the acknowledgement resolves through a later Poll as a
// DeliveryConfirmed or DeliveryFailed event. A full table fails with
// ErrSessionBusy and leaves the session untouched
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos packet.QosType) (packet.IDType, error) {
	if c.state != StateConnected {
		return 0, ErrNotConnected
	}

	m := packet.NewPublish(packet.ProtocolV311)
	if err := m.Set(topic, payload, qos, false, false); err != nil {
		return 0, err
	}

	var id packet.IDType

	if qos == packet.QoS1 {
		if c.pending.full() {
			return 0, ErrSessionBusy
		}

		id = c.pending.insert(pendingEntry{
			kind:    entryPublish,
			topic:   topic,
			payload: payload,
			qos:     qos,
			retryAt: time.Now().Add(c.opts.RetryInterval),
		})

		if err := m.SetID(id); err != nil {
			c.pending.take(id)
			return 0, err
		}
	}

	if err := c.send(m); err != nil {
		c.drop()
		return 0, &TransportError{Reason: err}
	}

	return id, nil
}

// Subscribe requests a subscription. The broker's answer resolves through
// a later Poll as a SubscribeAck event carrying the returned packet id; a
// granted QoS below the requested one is reported there, never silently
// accepted
func (c *Client) Subscribe(ctx context.Context, filter string, qos packet.QosType) (packet.IDType, error) {
	if c.state != StateConnected {
		return 0, ErrNotConnected
	}

	if c.pending.full() {
		return 0, ErrSessionBusy
	}

	m := packet.NewSubscribe(packet.ProtocolV311)
	if err := m.AddTopic(filter, qos); err != nil {
		return 0, err
	}

	id := c.pending.insert(pendingEntry{
		kind:  entrySubscribe,
		topic: filter,
		qos:   qos,
	})

	if err := m.SetID(id); err != nil {
		c.pending.take(id)
		return 0, err
	}

	if err := c.send(m); err != nil {
		c.drop()
		return 0, &TransportError{Reason: err}
	}

	return id, nil
}

// Unsubscribe removes a subscription, resolving through Poll as an
// UnsubscribeAck event
func (c *Client) Unsubscribe(ctx context.Context, filter string) (packet.IDType, error) {
	if c.state != StateConnected {
		return 0, ErrNotConnected
	}

	if c.pending.full() {
		return 0, ErrSessionBusy
	}

	m := packet.NewUnSubscribe(packet.ProtocolV311)
	if err := m.AddTopic(filter); err != nil {
		return 0, err
	}

	id := c.pending.insert(pendingEntry{
		kind:  entryUnsubscribe,
		topic: filter,
	})

	if err := m.SetID(id); err != nil {
		c.pending.take(id)
		return 0, err
	}

	if err := c.send(m); err != nil {
		c.drop()
		return 0, &TransportError{Reason: err}
	}

	return id, nil
}

// Poll advances the session. It waits for whichever comes first, inbound
// bytes or the nearest timer deadline, applies every complete frame in
// arrival order and returns the first user-relevant event. Buffered data
// always takes precedence over an expired timer since it carries more
// information. A (nil, nil) return means only bookkeeping occurred, the
// caller should keep polling.
//
// Transport and protocol failures never surface as bare errors here. They
// resolve into a Disconnected state and a ConnectionLost event carrying
// the reason
func (c *Client) Poll(ctx context.Context) (Event, error) {
	if c.state != StateConnected {
		return nil, ErrNotConnected
	}

	deadline := c.pingAt
	if r := c.pending.nextRetry(); !r.IsZero() && r.Before(deadline) {
		deadline = r
	}

	m, err := c.readPacket(ctx, deadline)

	switch {
	case err == nil:
		// any broker traffic proves the connection alive
		c.pingOutstanding = false

		ev, pErr := c.handleInbound(m)
		if pErr != nil {
			c.drop()
			return ConnectionLost{Reason: pErr}, nil
		}

		if ev != nil {
			return ev, nil
		}

		// bookkeeping only, give the caller a turn
		return nil, nil

	case err == errDeadline:
		return c.handleDeadlines(time.Now())

	case err == ctx.Err() && err != nil:
		return nil, err

	default:
		c.drop()
		return ConnectionLost{Reason: c.classify(err)}, nil
	}
}

// Disconnect sends a best-effort DISCONNECT and tears the session down.
// Valid from Connected or Connecting; failure to send is not an error,
// the client was already leaving
func (c *Client) Disconnect(ctx context.Context) error {
	if c.state != StateConnected && c.state != StateConnecting {
		return ErrNotConnected
	}

	c.state = StateDisconnecting

	m := packet.NewDisconnect(packet.ProtocolV311)
	c.send(m) // nolint: errcheck

	c.drop()

	return nil
}

// handleInbound applies one decoded frame to the session. A nil event with
// a nil error means pure bookkeeping. A non-nil error is a protocol
// violation and terminal
func (c *Client) handleInbound(m packet.Provider) (Event, error) {
	switch p := m.(type) {
	case *packet.Publish:
		if p.QoS() == packet.QoS1 {
			id, _ := p.ID()

			ack := packet.NewPubAck(packet.ProtocolV311)
			ack.SetID(id) // nolint: errcheck

			if err := c.send(ack); err != nil {
				return nil, &TransportError{Reason: err}
			}
		}

		return Message{
			Topic:   p.Topic(),
			Payload: p.Payload(),
			QoS:     p.QoS(),
			Retain:  p.Retain(),
			Dup:     p.Dup(),
		}, nil

	case *packet.PubAck:
		id, _ := p.ID()

		e := c.pending.byID(id)
		if e == nil {
			// stale acknowledgement, e.g. for an entry already failed out
			return nil, nil
		}

		// a PUBACK answering a subscribe or unsubscribe id must not
		// destroy that entry
		if e.kind != entryPublish {
			return nil, packet.ErrMalformedStream
		}

		c.pending.release(e)

		return DeliveryConfirmed{ID: id}, nil

	case *packet.SubAck:
		id, _ := p.ID()

		e, ok := c.pending.take(id)
		if !ok || e.kind != entrySubscribe {
			return nil, packet.ErrMalformedStream
		}

		codes := p.ReturnCodes()
		if len(codes) != 1 {
			return nil, packet.ErrMalformedStream
		}

		return SubscribeAck{
			ID:        id,
			Filter:    e.topic,
			Requested: e.qos,
			Granted:   codes[0],
			Failed:    codes[0] == packet.QosFailure,
		}, nil

	case *packet.UnSubAck:
		id, _ := p.ID()

		e, ok := c.pending.take(id)
		if !ok || e.kind != entryUnsubscribe {
			return nil, packet.ErrMalformedStream
		}

		return UnsubscribeAck{ID: id, Filter: e.topic}, nil

	case *packet.PingResp:
		c.pingOutstanding = false
		return nil, nil

	default:
		// broker must not send CONNECT, SUBSCRIBE, PINGREQ or a second
		// CONNACK on an established session
		return nil, packet.ErrInvalidMessageType
	}
}

// handleDeadlines runs the timer side of the Poll race: QoS 1 retries
// first, then the keep-alive
func (c *Client) handleDeadlines(now time.Time) (Event, error) {
	if e := c.pending.expired(now); e != nil {
		if e.retries >= c.opts.RetryLimit {
			id := e.id
			c.pending.release(e)

			return DeliveryFailed{ID: id, Reason: ErrRetriesExceeded}, nil
		}

		m := packet.NewPublish(packet.ProtocolV311)
		m.Set(e.topic, e.payload, e.qos, false, true) // nolint: errcheck
		m.SetID(e.id)                                 // nolint: errcheck

		if err := c.send(m); err != nil {
			c.drop()
			return ConnectionLost{Reason: &TransportError{Reason: err}}, nil
		}

		e.retries++
		e.retryAt = now.Add(c.opts.RetryInterval)

		return nil, nil
	}

	if !now.Before(c.pingAt) {
		if c.pingOutstanding {
			c.drop()
			return ConnectionLost{Reason: ErrKeepAliveTimeout}, nil
		}

		m := packet.NewPingReq(packet.ProtocolV311)
		if err := c.send(m); err != nil {
			c.drop()
			return ConnectionLost{Reason: &TransportError{Reason: err}}, nil
		}

		c.pingOutstanding = true
	}

	return nil, nil
}

// readPacket returns the next complete frame, reading from the transport
// as needed. Buffered frames are decoded before the deadline is even
// looked at. Returns errDeadline on expiry, the ctx error on
// cancellation, a packet error on a malformed stream or an I/O error
func (c *Client) readPacket(ctx context.Context, deadline time.Time) (packet.Provider, error) {
	for {
		if c.rxOff < c.rxLen {
			m, n, err := packet.Decode(packet.ProtocolV311, c.rx[c.rxOff:c.rxLen])
			if err == nil {
				// the frame's byte fields alias the buffer, leave the
				// consumed region in place and advance the offset
				c.rxOff += n

				return m, nil
			}

			if !packet.IsIncomplete(err) {
				return nil, err
			}
		}

		// no complete frame left; any previously returned frame has been
		// consumed by now, reclaim its space before reading more
		if c.rxOff > 0 {
			copy(c.rx[:], c.rx[c.rxOff:c.rxLen])
			c.rxLen -= c.rxOff
			c.rxOff = 0
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		effective := deadline
		if d, ok := ctx.Deadline(); ok && d.Before(effective) {
			effective = d
		}

		if err := c.conn.SetReadDeadline(effective); err != nil {
			return nil, err
		}

		n, err := c.conn.Read(c.rx[c.rxLen:])
		c.rxLen += n

		if err != nil {
			if transport.IsTimeout(err) {
				if cErr := ctx.Err(); cErr != nil {
					return nil, cErr
				}

				return nil, errDeadline
			}

			return nil, err
		}

		if n == 0 {
			return nil, io.EOF
		}
	}
}

// send encodes m into the transmit buffer and writes it out whole. Every
// successful transmission re-arms the keep-alive
func (c *Client) send(m packet.Provider) error {
	sz, err := m.Size()
	if err != nil {
		return err
	}

	if sz > len(c.tx) {
		return packet.ErrInsufficientBufferSize
	}

	if _, err = m.Encode(c.tx[:sz]); err != nil {
		return err
	}

	if err = c.conn.SetWriteDeadline(time.Now().Add(c.opts.ConnectTimeout)); err != nil {
		return err
	}

	for wrote := 0; wrote < sz; {
		n, err := c.conn.Write(c.tx[wrote:sz])
		if err != nil {
			return err
		}
		wrote += n
	}

	c.touchKeepAlive()

	return nil
}

func (c *Client) touchKeepAlive() {
	c.pingAt = time.Now().Add(c.opts.KeepAlive)
}

// drop resets the session to Disconnected. Nothing but Options survives
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close() // nolint: errcheck
		c.conn = nil
	}

	c.state = StateDisconnected
	c.pending.reset()
	c.rxOff = 0
	c.rxLen = 0
	c.pingOutstanding = false
}

// classify wraps a raw readPacket error into the session taxonomy
func (c *Client) classify(err error) error {
	if _, ok := err.(packet.Error); ok {
		return &ProtocolError{Reason: err}
	}

	if _, ok := err.(packet.ReasonCode); ok {
		return &ProtocolError{Reason: err}
	}

	return &TransportError{Reason: err}
}
