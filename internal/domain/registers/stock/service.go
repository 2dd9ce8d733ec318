package stock

import (
	"context"
	"fmt"
	"math"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/pkg/logger"
)

// Movement is one signed quantity change. A negative Change is how stock is
// consumed or reversed.
type Movement struct {
	Kind   Kind
	ID     id.ID
	Change int64
	Cause  Cause
}

// Check reports whether the movement fits into the available quantity.
// Sale shortages are InsufficientStock, purchase reversals NegativeStock.
// An addition that would overflow the quantity is a validation error.
func (m Movement) Check(available int64) error {
	if m.Change > 0 && available > math.MaxInt64-m.Change {
		return apperror.NewValidation("stock quantity out of range").
			WithDetail("entity", string(m.Kind)).
			WithDetail("id", m.ID.String()).
			WithDetail("available", available).
			WithDetail("change", m.Change)
	}
	if available+m.Change >= 0 {
		return nil
	}
	requested := -m.Change
	if m.Cause == CauseSale {
		return apperror.NewInsufficientStock(string(m.Kind), m.ID.String(), requested, available)
	}
	return apperror.NewNegativeStock(string(m.Kind), m.ID.String(), requested, available)
}

// Ledger applies stock movements.
type Ledger struct {
	repo Repository
}

// NewLedger creates a new Ledger.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Apply writes a movement and returns the resulting quantity.
// The non-negative guard is evaluated by storage in the same statement as the
// write; a rejected movement changes nothing.
func (l *Ledger) Apply(ctx context.Context, m Movement) (int64, error) {
	if m.Change == 0 {
		return 0, nil
	}

	qty, applied, err := l.repo.AddQuantity(ctx, m.Kind, m.ID, m.Change)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, apperror.NewNotFound(string(m.Kind), m.ID.String())
		}
		return 0, fmt.Errorf("apply %s movement: %w", m.Kind, err)
	}
	if !applied {
		if err := m.Check(qty); err != nil {
			return qty, err
		}
		return qty, fmt.Errorf("%s %s: movement rejected at quantity %d", m.Kind, m.ID, qty)
	}

	logger.Debug(ctx, "stock movement applied",
		"kind", m.Kind,
		"id", m.ID,
		"change", m.Change,
		"cause", m.Cause,
		"quantity", qty,
	)
	return qty, nil
}
