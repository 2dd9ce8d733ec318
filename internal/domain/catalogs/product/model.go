// Package product provides the wholesale Product catalog. Purchase invoices
// add product stock and provision the matching retail medicine.
package product

import (
	"context"
	"strings"
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
)

// Product is a wholesale stock row bought from a supplier.
type Product struct {
	entity.BaseCatalog

	SupplierID id.ID  `db:"supplier_id" json:"supplierId"`
	BrandName  string `db:"brand_name" json:"brandName"`
	Name       string `db:"name" json:"name"`

	Price types.Money `db:"price" json:"price"`

	// Quantity is written only by the stock ledger.
	Quantity int64 `db:"quantity" json:"quantity"`

	ExpiryDate time.Time `db:"expiry_date" json:"expiryDate"`
}

// NewProduct creates a Product with a generated ID and no stock.
func NewProduct(supplierID id.ID, brandName, name string, price types.Money, expiry time.Time) *Product {
	return &Product{
		BaseCatalog: entity.NewBaseCatalog(),
		SupplierID:  supplierID,
		BrandName:   strings.TrimSpace(brandName),
		Name:        strings.TrimSpace(name),
		Price:       price,
		ExpiryDate:  expiry,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.BrandName == "" {
		return apperror.NewValidation("brand name is required").WithDetail("field", "brandName")
	}
	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	if p.ExpiryDate.IsZero() {
		return apperror.NewValidation("expiry date is required").WithDetail("field", "expiryDate")
	}
	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	return nil
}
