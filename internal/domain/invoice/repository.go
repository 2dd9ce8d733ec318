package invoice

import (
	"context"
	"time"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	Type       Type
	CustomerID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Repository defines the interface for invoice persistence.
type Repository interface {
	// Create inserts the header. Items are written with SaveItems.
	Create(ctx context.Context, inv *Invoice) error

	// GetByID returns the header with its items.
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// GetForUpdate row-locks the header and returns it with its items.
	GetForUpdate(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// Update writes date, total and updated_at. Type never changes.
	Update(ctx context.Context, inv *Invoice) error

	// Delete removes the header. Items must already be gone.
	Delete(ctx context.Context, invoiceID id.ID) error

	// SaveItems replaces the invoice's item set.
	SaveItems(ctx context.Context, invoiceID id.ID, items []Item) error

	// DeleteItems removes every item of the invoice.
	DeleteItems(ctx context.Context, invoiceID id.ID) error

	// List returns headers (without items), newest date first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
}
