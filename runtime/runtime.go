package runtime

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/glowbridge/glowbridge/client"
	"github.com/glowbridge/glowbridge/metrics"
	"github.com/glowbridge/glowbridge/packet"
	"github.com/glowbridge/glowbridge/transport"
)

const (
	// reconnectDelay flat backoff between connection attempts
	reconnectDelay = 2 * time.Second

	// pollBudget upper bound of one Poll call so timer-driven work
	// (module ticks, queued requests) stays responsive
	pollBudget = 250 * time.Millisecond
)

// Config runtime construction parameters
type Config struct {
	// Options for the underlying session
	Options client.Options

	// Dial opens a fresh transport for every connection attempt
	Dial func() (transport.Conn, error)

	// ReconnectDelay overrides the flat backoff, for tests
	ReconnectDelay time.Duration

	// Metrics optional link counters
	Metrics *metrics.Provider
}

// Runtime drives one broker session on one goroutine
type Runtime struct {
	cl      *client.Client
	dial    func() (transport.Conn, error)
	backoff time.Duration

	modules []Module
	filters []string

	requests chan publishRequest
	queue    *queueOutbox

	connected atomic.Bool
	stats     *metrics.Provider
	log       *zap.SugaredLogger

	quit   chan struct{}
	cancel context.CancelFunc
	ctx    context.Context
	done   chan struct{}
}

// New creates a stopped runtime
func New(config Config, log *zap.SugaredLogger) *Runtime {
	backoff := config.ReconnectDelay
	if backoff == 0 {
		backoff = reconnectDelay
	}

	ctx, cancel := context.WithCancel(context.Background())

	requests := make(chan publishRequest, requestQueueDepth)

	return &Runtime{
		cl:       client.New(config.Options),
		dial:     config.Dial,
		backoff:  backoff,
		requests: requests,
		queue:    &queueOutbox{requests: requests, log: log},
		stats:    config.Metrics,
		log:      log,
		quit:     make(chan struct{}),
		cancel:   cancel,
		ctx:      ctx,
		done:     make(chan struct{}),
	}
}

// Register adds a module. Must be called before Start
func (r *Runtime) Register(m Module) {
	r.modules = append(r.modules, m)
	m.Topics(func(filter string) {
		r.filters = append(r.filters, filter)
	})
}

// Outbox returns a publish queue usable from any goroutine. Requests are
// dropped when the broker is unreachable for long enough to fill it
func (r *Runtime) Outbox() Outbox {
	return r.queue
}

// Connected reports whether a broker session is currently established
func (r *Runtime) Connected() bool {
	return r.connected.Load()
}

// Start launches the connect/poll loop
func (r *Runtime) Start() {
	go r.run()
}

// Stop disconnects and waits for the loop to exit
func (r *Runtime) Stop() {
	close(r.quit)
	r.cancel()
	<-r.done
}

func (r *Runtime) run() {
	defer close(r.done)

	for {
		select {
		case <-r.quit:
			return
		default:
		}

		if err := r.session(); err != nil {
			r.log.Warnf("mqtt: session ended: %v, reconnecting in %v", err, r.backoff)

			select {
			case <-r.quit:
				return
			case <-time.After(r.backoff):
			}

			continue
		}

		// clean shutdown
		return
	}
}

// session runs one full broker session: dial, connect, subscribe, then
// poll until failure or shutdown. A nil return means shutdown
func (r *Runtime) session() error {
	conn, err := r.dial()
	if err != nil {
		return err
	}

	if err = r.cl.Connect(r.ctx, conn); err != nil {
		if r.ctx.Err() != nil {
			r.cl.Disconnect(context.Background()) // nolint: errcheck
			return nil
		}

		return err
	}

	r.log.Info("mqtt: connected")
	r.connected.Store(true)

	if r.stats != nil {
		r.stats.OnConnect()
	}

	defer r.connected.Store(false)

	for _, filter := range r.filters {
		if _, err = r.cl.Subscribe(r.ctx, filter, packet.QoS1); err != nil {
			r.cl.Disconnect(context.Background()) // nolint: errcheck
			return err
		}
	}

	out := &directOutbox{cl: r.cl, log: r.log}

	tickAt := make([]time.Time, len(r.modules))
	for i, m := range r.modules {
		tickAt[i] = time.Now().Add(m.OnStart(out))
	}

	for {
		select {
		case <-r.quit:
			r.cl.Disconnect(context.Background()) // nolint: errcheck
			return nil
		case req := <-r.requests:
			out.Publish(req.topic, req.payload, req.qos)
			continue
		default:
		}

		now := time.Now()
		next := now.Add(pollBudget)

		for i, m := range r.modules {
			if m.Dirty() || !now.Before(tickAt[i]) {
				tickAt[i] = now.Add(m.OnTick(out))
			}

			if tickAt[i].Before(next) {
				next = tickAt[i]
			}
		}

		ctx, cancel := context.WithDeadline(r.ctx, next)
		ev, err := r.cl.Poll(ctx)
		cancel()

		if err != nil {
			if err == context.DeadlineExceeded {
				continue
			}

			// shutdown cancellation
			r.cl.Disconnect(context.Background()) // nolint: errcheck
			return nil
		}

		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case client.Message:
			msg := Message{Topic: e.Topic, Payload: e.Payload, Retain: e.Retain}
			for _, m := range r.modules {
				m.OnMessage(msg)
			}

		case client.SubscribeAck:
			if e.Failed {
				r.log.Warnf("mqtt: broker refused subscription to %s", e.Filter)
			} else if e.Granted != e.Requested {
				r.log.Warnf("mqtt: subscription to %s downgraded to QoS %d", e.Filter, e.Granted)
			}

		case client.DeliveryFailed:
			r.log.Warnf("mqtt: delivery of packet %d failed: %v", e.ID, e.Reason)

		case client.ConnectionLost:
			if r.stats != nil {
				r.stats.OnDrop()
			}

			return e.Reason
		}
	}
}
