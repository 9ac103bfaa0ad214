package orders

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ariefcatur/go-stock-orders/internal/kafka"
)

type eventSink interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Publisher turns committed receipts into order events.
type Publisher struct {
	sink     eventSink
	producer string
	now      func() time.Time
}

func NewPublisher(sink eventSink, producer string) *Publisher {
	return &Publisher{sink: sink, producer: producer, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, rc Receipt) error {
	topic, ok := TopicFor(eventType)
	if !ok {
		return fmt.Errorf("publish: unknown event type %q", eventType)
	}

	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	env, err := NewEnvelope(eventType, p.producer, traceID, rc, p.now())
	if err != nil {
		return err
	}
	if err := p.sink.Publish(ctx, topic, PartitionKey(rc.Order.ID), kafka.MustMarshal(env)); err != nil {
		return fmt.Errorf("publish %s for order %d: %w", eventType, rc.Order.ID, err)
	}
	return nil
}
