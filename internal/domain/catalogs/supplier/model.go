// Package supplier provides the Supplier catalog: wholesale vendors that
// products are bought from.
package supplier

import (
	"context"
	"regexp"
	"strings"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Supplier is a wholesale vendor.
type Supplier struct {
	entity.BaseCatalog

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone,omitempty"`
	Email string `db:"email" json:"email,omitempty"`
}

// NewSupplier creates a Supplier with a generated ID.
func NewSupplier(name, phone, email string) *Supplier {
	return &Supplier{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
		Phone:       strings.TrimSpace(phone),
		Email:       strings.TrimSpace(email),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if s.Email != "" && !emailRE.MatchString(s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", s.Email)
	}
	return nil
}
