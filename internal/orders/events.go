package orders

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderUpdated   = "OrderUpdated"
	EventOrderCancelled = "OrderCancelled"
)

const eventVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "stock-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type UserSnapshot struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type ProductSnapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// OrderEventPayload is shared by all three order events so consumers can
// render notifications without reading the database.
type OrderEventPayload struct {
	OrderID          int64                `json:"order_id"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Address          string               `json:"address"`
	PaymentMethod    domain.PaymentMethod `json:"payment_method"`
	Quantity         int                  `json:"quantity"`
	PreviousQuantity int                  `json:"previous_quantity,omitempty"`
	OrderDate        time.Time            `json:"order_date"`
	User             UserSnapshot         `json:"user"`
	Product          ProductSnapshot      `json:"product"`
}

func PayloadFromReceipt(rc Receipt) OrderEventPayload {
	return OrderEventPayload{
		OrderID:          rc.Order.ID,
		Name:             rc.Order.Name,
		Description:      rc.Order.Description,
		Address:          rc.Order.Address,
		PaymentMethod:    rc.Order.PaymentMethod,
		Quantity:         rc.Order.Quantity,
		PreviousQuantity: rc.PreviousQuantity,
		OrderDate:        rc.Order.OrderDate,
		User: UserSnapshot{
			ID: rc.User.ID, Name: rc.User.Name, LastName: rc.User.LastName,
			Email: rc.User.Email, Address: rc.User.Address,
		},
		Product: ProductSnapshot{
			ID: rc.Product.ID, Name: rc.Product.Name, Description: rc.Product.Description,
			Price: rc.Product.Price, Stock: rc.Product.Stock,
		},
	}
}

// NewEnvelope wraps a receipt as an event of the given type.
func NewEnvelope(eventType, producer, traceID string, rc Receipt, at time.Time) (Envelope, error) {
	payload, err := json.Marshal(PayloadFromReceipt(rc))
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: strconv.FormatInt(rc.Order.ID, 10),
		Payload:       payload,
	}, nil
}

// DecodePayload reads an order payload, rejecting unknown versions.
func DecodePayload(env Envelope) (OrderEventPayload, error) {
	var p OrderEventPayload
	if env.EventVersion != eventVersion {
		return p, fmt.Errorf("event %s: unsupported version %d", env.EventID, env.EventVersion)
	}
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return p, fmt.Errorf("event %s: decode payload: %w", env.EventID, err)
	}
	return p, nil
}
