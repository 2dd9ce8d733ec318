// Package customer provides the Customer catalog. Customers are only ever
// referenced by sale invoices.
package customer

import (
	"context"
	"strings"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
)

// Customer is a retail buyer.
type Customer struct {
	entity.BaseCatalog

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone,omitempty"`
}

// NewCustomer creates a Customer with a generated ID.
func NewCustomer(name, phone string) *Customer {
	return &Customer{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
		Phone:       strings.TrimSpace(phone),
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}
