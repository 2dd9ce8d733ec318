// Package brand provides the Brand catalog. Brands are provisioned
// automatically from purchases and identified by their exact name.
package brand

import (
	"context"
	"strings"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
)

// Brand groups retail medicines by maker.
type Brand struct {
	entity.BaseCatalog

	Name         string `db:"name" json:"name"`
	Manufacturer string `db:"manufacturer" json:"manufacturer,omitempty"`
}

// NewBrand creates a Brand with a generated ID.
func NewBrand(name, manufacturer string) *Brand {
	return &Brand{
		BaseCatalog:  entity.NewBaseCatalog(),
		Name:         name,
		Manufacturer: manufacturer,
	}
}

// Validate implements entity.Validatable interface.
func (b *Brand) Validate(ctx context.Context) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("brand name is required").WithDetail("field", "name")
	}
	return nil
}
