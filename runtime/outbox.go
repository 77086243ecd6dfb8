package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/glowbridge/glowbridge/client"
	"github.com/glowbridge/glowbridge/packet"
)

// requestQueueDepth bounds publish requests from external tasks. Requests
// beyond the bound are dropped with a warning rather than blocking the
// producer
const requestQueueDepth = 16

type publishRequest struct {
	topic   string
	payload []byte
	qos     packet.QosType
}

// directOutbox publishes straight through the client. Only used from the
// runtime goroutine, which is the single owner of the client
type directOutbox struct {
	cl  *client.Client
	log *zap.SugaredLogger
}

func (o *directOutbox) Publish(topic string, payload []byte, qos packet.QosType) {
	if _, err := o.cl.Publish(context.Background(), topic, payload, qos); err != nil {
		o.log.Warnf("mqtt: publish %s: %v", topic, err)
	}
}

// queueOutbox hands publish requests to the runtime goroutine over a
// bounded channel. Safe for any goroutine
type queueOutbox struct {
	requests chan publishRequest
	log      *zap.SugaredLogger
}

func (o *queueOutbox) Publish(topic string, payload []byte, qos packet.QosType) {
	select {
	case o.requests <- publishRequest{topic: topic, payload: payload, qos: qos}:
	default:
		o.log.Warnf("mqtt: outbox full, dropping publish to %s", topic)
	}
}
