package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// headerCarrier adapts nats.Msg headers for OTel trace propagation.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// EventPublisher implements repository.EventPublisher on a core NATS subject.
type EventPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewEventPublisher(conn *nats.Conn, subject string) *EventPublisher {
	return &EventPublisher{conn: conn, subject: subject}
}

// Publish serializes event as JSON. Trace context from ctx travels in the message headers.
func (p *EventPublisher) Publish(ctx context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: p.subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	return p.conn.PublishMsg(msg)
}
