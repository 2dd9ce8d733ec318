package medicine

import (
	"context"
	"time"

	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain"
)

// Repository defines the interface for Medicine persistence.
type Repository interface {
	domain.CatalogRepository[*Medicine]

	// LockByIDs row-locks the given medicines in ascending id order and
	// returns the rows that exist. Must run inside a transaction.
	LockByIDs(ctx context.Context, ids []id.ID) ([]*Medicine, error)

	// FindByNameAndBrand returns the medicine with this natural key, or nil.
	FindByNameAndBrand(ctx context.Context, name string, brandID id.ID) (*Medicine, error)

	// UpdatePricing overwrites price and expiry date. Quantity is untouched.
	UpdatePricing(ctx context.Context, medicineID id.ID, price types.Money, expiry time.Time) error
}
