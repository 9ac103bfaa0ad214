package orders

import "github.com/ariefcatur/go-stock-orders/internal/domain"

// CreateInput holds parameters for placing an order. User and product are
// resolved inside the transaction; unknown ids surface as domain.ErrNotFound.
type CreateInput struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Address       string               `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Quantity      int                  `json:"quantity"`
	UserID        int64                `json:"user_id"`
	ProductID     int64                `json:"product_id"`
}

func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	errs = appendQuantity(errs, i.Quantity)
	errs = appendPayment(errs, i.PaymentMethod)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput replaces every mutable field of an order.
type UpdateInput struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Address       string               `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Quantity      int                  `json:"quantity"`
}

func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	errs = appendQuantity(errs, i.Quantity)
	errs = appendPayment(errs, i.PaymentMethod)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) apply(o domain.Order) domain.Order {
	o.Name = i.Name
	o.Description = i.Description
	o.Address = i.Address
	o.PaymentMethod = i.PaymentMethod
	o.Quantity = i.Quantity
	return o
}

// PatchInput changes only the fields that are set (nil = don't change).
type PatchInput struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Address       *string               `json:"address"`
	PaymentMethod *domain.PaymentMethod `json:"payment_method"`
	Quantity      *int                  `json:"quantity"`
}

func (i PatchInput) Validate() error {
	var errs []domain.FieldError

	if i.Quantity != nil {
		errs = appendQuantity(errs, *i.Quantity)
	}
	if i.PaymentMethod != nil {
		errs = appendPayment(errs, *i.PaymentMethod)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (i PatchInput) IsEmpty() bool {
	return i.Name == nil && i.Description == nil && i.Address == nil &&
		i.PaymentMethod == nil && i.Quantity == nil
}

func (i PatchInput) apply(o domain.Order) domain.Order {
	if i.Name != nil {
		o.Name = *i.Name
	}
	if i.Description != nil {
		o.Description = *i.Description
	}
	if i.Address != nil {
		o.Address = *i.Address
	}
	if i.PaymentMethod != nil {
		o.PaymentMethod = *i.PaymentMethod
	}
	if i.Quantity != nil {
		o.Quantity = *i.Quantity
	}
	return o
}

func appendQuantity(errs []domain.FieldError, qty int) []domain.FieldError {
	if qty < 1 {
		return append(errs, domain.FieldError{Field: "quantity", Message: "must be at least 1"})
	}
	return errs
}

func appendPayment(errs []domain.FieldError, m domain.PaymentMethod) []domain.FieldError {
	if !m.Valid() {
		return append(errs, domain.FieldError{Field: "payment_method", Message: "unknown payment method"})
	}
	return errs
}
