// Package entity holds the fields and behaviors shared by catalog and document models.
package entity

import (
	"context"
	"time"

	"pharmacy/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

//////////////
// Catalogs //
//////////////

// BaseCatalog is embedded by reference data rows (medicines, products, brands, ...).
type BaseCatalog struct {
	ID id.ID `db:"id" json:"id"`
}

// NewBaseCatalog creates a new BaseCatalog with generated ID.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{ID: id.New()}
}

///////////////
// Documents //
///////////////

// BaseDocument adds audit timestamps for documents (invoices).
type BaseDocument struct {
	ID        id.ID     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
