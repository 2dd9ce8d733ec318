// Package medicine provides the retail Medicine catalog. Sale invoices consume
// medicine stock; purchases provision and replenish it through the resolver.
package medicine

import (
	"context"
	"strings"
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
)

// Medicine is a retail stock row, unique by (name, brand).
type Medicine struct {
	entity.BaseCatalog

	Name    string `db:"name" json:"name"`
	BrandID id.ID  `db:"brand_id" json:"brandId"`

	// Quantity is written only by the stock ledger.
	Quantity int64 `db:"quantity" json:"quantity"`

	Price      types.Money `db:"price" json:"price"`
	ExpiryDate time.Time   `db:"expiry_date" json:"expiryDate"`
	SupplierID *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	Location   string      `db:"location" json:"location"`
	Category   string      `db:"category" json:"category"`
}

// Validate implements entity.Validatable interface.
func (m *Medicine) Validate(ctx context.Context) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if id.IsNil(m.BrandID) {
		return apperror.NewValidation("brand is required").WithDetail("field", "brandId")
	}
	if m.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	if m.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	return nil
}
