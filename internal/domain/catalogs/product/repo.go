package product

import (
	"context"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// LockByIDs row-locks the given products in ascending id order and
	// returns the rows that exist. Must run inside a transaction.
	LockByIDs(ctx context.Context, ids []id.ID) ([]*Product, error)
}
