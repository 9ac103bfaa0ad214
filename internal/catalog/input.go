package catalog

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type UserInput struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Address  string `json:"address"`
}

func (i UserInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if strings.TrimSpace(i.LastName) == "" {
		errs = append(errs, domain.FieldError{Field: "last_name", Message: "required"})
	}
	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if _, err := mail.ParseAddress(i.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid address"})
	}
	if i.Age < 0 || i.Age > 150 {
		errs = append(errs, domain.FieldError{Field: "age", Message: "must be between 0 and 150"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UserInput) user(id int64) domain.User {
	return domain.User{
		ID:       id,
		Name:     strings.TrimSpace(i.Name),
		LastName: strings.TrimSpace(i.LastName),
		Email:    strings.TrimSpace(i.Email),
		Age:      i.Age,
		Address:  i.Address,
	}
}

// ProductInput is used for creation. Stock is the opening balance.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func (i ProductInput) Validate() error {
	errs := validateDetails(i.Name, i.Price)
	if i.Stock < 0 {
		errs = append(errs, domain.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ProductDetailsInput updates everything but stock.
type ProductDetailsInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (i ProductDetailsInput) Validate() error {
	if errs := validateDetails(i.Name, i.Price); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateDetails(name string, price decimal.Decimal) []domain.FieldError {
	var errs []domain.FieldError
	if strings.TrimSpace(name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if price.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must not be negative"})
	}
	if !price.Equal(price.Round(2)) {
		errs = append(errs, domain.FieldError{Field: "price", Message: "at most 2 decimal places"})
	}
	return errs
}
