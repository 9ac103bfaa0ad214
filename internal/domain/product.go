package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product.Stock is the stock ledger: available units after every active
// order's quantity has been taken out.
type Product struct {
	ID          int64           `json:"id"          db:"id"`
	Name        string          `json:"name"        db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price"       db:"price"`
	Stock       int             `json:"stock"       db:"stock"`
	CreatedAt   time.Time       `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"  db:"updated_at"`
}

func (p Product) AuditFields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"stock":       p.Stock,
	}
}
