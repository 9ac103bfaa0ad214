// Package notify emails order confirmations and cancellations.
package notify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
)

// Details is everything a notification renders.
type Details struct {
	OrderID          int64
	OrderName        string
	OrderDescription string
	OrderDate        time.Time
	Quantity         int
	PaymentMethod    domain.PaymentMethod
	DeliveryAddress  string

	CustomerName    string
	CustomerLast    string
	CustomerEmail   string
	CustomerAddress string

	ProductName        string
	ProductDescription string
	ProductPrice       decimal.Decimal
}

func DetailsFromPayload(p orders.OrderEventPayload) Details {
	return Details{
		OrderID:            p.OrderID,
		OrderName:          p.Name,
		OrderDescription:   p.Description,
		OrderDate:          p.OrderDate,
		Quantity:           p.Quantity,
		PaymentMethod:      p.PaymentMethod,
		DeliveryAddress:    p.Address,
		CustomerName:       p.User.Name,
		CustomerLast:       p.User.LastName,
		CustomerEmail:      p.User.Email,
		CustomerAddress:    p.User.Address,
		ProductName:        p.Product.Name,
		ProductDescription: p.Product.Description,
		ProductPrice:       p.Product.Price,
	}
}

func (d Details) Total() decimal.Decimal {
	return d.ProductPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

var months = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// formatDate renders "04 Mayıs 2026, 09:30" in UTC.
func formatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d %s %d, %02d:%02d", t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
