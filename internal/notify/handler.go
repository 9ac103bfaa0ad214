package notify

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-stock-orders/internal/kafka"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
)

type deduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// Handler turns order events into emails.
type Handler struct {
	sender Sender
	dedup  deduper
	log    *zap.Logger
}

func NewHandler(sender Sender, dedup deduper, log *zap.Logger) *Handler {
	return &Handler{sender: sender, dedup: dedup, log: log.With(zap.String("component", "notify-handler"))}
}

// HandleOrderEvent is the consumer handler for order events. Undecodable
// messages are logged and acknowledged; delivery failures are returned so
// the offset is not committed.
func (h *Handler) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		h.log.Warn("dropping undecodable message", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	var send func(context.Context, Details) error
	switch env.EventType {
	case orders.EventOrderPlaced:
		send = h.sender.SendOrderConfirmation
	case orders.EventOrderCancelled:
		send = h.sender.SendOrderCancellation
	default:
		return nil // ignore
	}

	// 2) dedup via Redis by event_id
	first, err := h.dedup.Claim(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !first {
		h.log.Debug("duplicate event", zap.String("event_id", env.EventID))
		return nil
	}

	// 3) decode payload
	p, err := orders.DecodePayload(env)
	if err != nil {
		h.log.Warn("dropping event with bad payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	if err := send(ctx, DetailsFromPayload(p)); err != nil {
		if rerr := h.dedup.Release(ctx, env.EventID); rerr != nil {
			h.log.Error("release dedup claim", zap.String("event_id", env.EventID), zap.Error(rerr))
		}
		return fmt.Errorf("%s for order %d: %w", env.EventType, p.OrderID, err)
	}
	return nil
}
