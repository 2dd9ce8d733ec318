// Package stock provides the stock ledger: the single writer of medicine and
// product quantities.
package stock

import (
	"context"

	"pharmacy/internal/core/id"
)

// Kind names the catalog a movement applies to.
type Kind string

const (
	KindMedicine Kind = "medicine"
	KindProduct  Kind = "product"
)

// Cause names the invoice type that produced a movement. It decides which
// error a shortage is reported as.
type Cause string

const (
	CauseSale     Cause = "sale"
	CausePurchase Cause = "purchase"
)

// Repository defines the storage side of the ledger.
type Repository interface {
	// AddQuantity atomically adds change to the row's quantity unless the
	// result would be negative. applied reports whether the row changed;
	// quantity is the row's quantity after the call either way.
	// A missing row is reported as apperror NotFound.
	AddQuantity(ctx context.Context, kind Kind, rowID id.ID, change int64) (quantity int64, applied bool, err error)
}
