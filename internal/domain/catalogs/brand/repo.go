package brand

import (
	"context"

	"pharmacy/internal/domain"
)

// Repository defines the interface for Brand persistence.
type Repository interface {
	domain.CatalogRepository[*Brand]

	// FindByName returns the brand with exactly this name, or nil when absent.
	FindByName(ctx context.Context, name string) (*Brand, error)

	// CreateIfAbsent inserts b unless a brand with the same name exists and
	// returns the stored row either way.
	CreateIfAbsent(ctx context.Context, b *Brand) (*Brand, error)
}
