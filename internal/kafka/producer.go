package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/config"
)

var ErrProducerClosed = errors.New("kafka: producer closed")

type messageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

type outbound struct {
	ctx context.Context
	msg kafka.Message
}

type Producer struct {
	w        messageWriter
	log      *zap.Logger
	inbox    chan outbound
	stopping chan struct{}
	closeCh  chan struct{}

	// mu guards closed; Publish holds it shared while enqueueing so the
	// loop can wait for in-flight sends before its final drain.
	mu     sync.RWMutex
	closed bool
}

// NewProducer builds a traced writer. Topic is taken from each message.
func NewProducer(cfg config.KafkaConfig, serviceName string, tp trace.TracerProvider, log *zap.Logger) (*Producer, error) {
	base := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	w, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			attribute.String("messaging.kafka.client_id", serviceName),
		}),
	)
	if err != nil {
		return nil, err
	}
	return newProducer(w, cfg.ProducerBuf, log), nil
}

func newProducer(w messageWriter, buf int, log *zap.Logger) *Producer {
	return &Producer{
		w:       w,
		log:     log,
		inbox:    make(chan outbound, buf),
		stopping: make(chan struct{}),
		closeCh:  make(chan struct{}),
	}
}

// Start runs the write loop until ctx is done; queued messages are flushed
// before the writer closes.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				close(p.stopping)
				p.mu.Lock()
				p.closed = true
				p.mu.Unlock()
				p.drain()
				if err := p.w.Close(); err != nil {
					p.log.Error("close kafka writer", zap.Error(err))
				}
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// Publish enqueues a message. The request context only carries the trace;
// cancelling it after Publish returns does not drop the message. A nil
// return means the message reaches the writer before WaitClosed returns.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	m := outbound{
		ctx: context.WithoutCancel(ctx),
		msg: kafka.Message{Topic: topic, Key: key, Value: value, Time: time.Now()},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}
	select {
	case p.inbox <- m:
		return nil
	case <-p.stopping:
		return ErrProducerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitClosed blocks until the write loop has flushed and closed the writer.
func (p *Producer) WaitClosed() { <-p.closeCh }

func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m outbound) {
	if err := p.w.WriteMessage(m.ctx, m.msg); err != nil {
		p.log.Error("kafka write failed",
			zap.String("topic", m.msg.Topic),
			zap.ByteString("key", m.msg.Key),
			zap.Error(err))
	}
}
