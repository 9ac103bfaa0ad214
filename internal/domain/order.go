package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int64         `json:"id"             db:"id"`
	Name          string        `json:"name"           db:"name"`
	Description   string        `json:"description"    db:"description"`
	Address       string        `json:"address"        db:"address"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Quantity      int           `json:"quantity"       db:"quantity"`
	OrderDate     time.Time     `json:"order_date"     db:"order_date"`
	UserID        int64         `json:"user_id"        db:"user_id"`
	ProductID     int64         `json:"product_id"     db:"product_id"`
}

// Total is the order value at the given unit price.
func (o Order) Total(unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

func (o Order) AuditFields() map[string]any {
	return map[string]any{
		"id":             o.ID,
		"name":           o.Name,
		"description":    o.Description,
		"address":        o.Address,
		"payment_method": string(o.PaymentMethod),
		"quantity":       o.Quantity,
		"order_date":     o.OrderDate.UTC().Format(time.RFC3339Nano),
		"user_id":        o.UserID,
		"product_id":     o.ProductID,
	}
}
