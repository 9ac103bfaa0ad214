package orders

import "github.com/ariefcatur/go-stock-orders/internal/domain"

// stockDelta is how many more units an order holds after a quantity change.
// Positive values take stock, negative values give it back.
func stockDelta(oldQty, newQty int) int {
	return newQty - oldQty
}

// applyDelta returns the product's balance after moving delta units into
// an order. Taking stock fails when the balance cannot cover it; releasing
// stock always succeeds.
func applyDelta(p domain.Product, delta int) (int, error) {
	if delta > 0 && p.Stock < delta {
		return p.Stock, &domain.InsufficientStockError{
			ProductID: p.ID,
			Requested: delta,
			Available: p.Stock,
		}
	}
	return p.Stock - delta, nil
}
