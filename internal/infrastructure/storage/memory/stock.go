package memory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/registers/stock"
)

var errLockOutsideTx = errors.New("memory: row lock requested outside a transaction")

// StockRepo implements stock.Repository.
type StockRepo struct{ s *Store }

func (r *StockRepo) AddQuantity(ctx context.Context, kind stock.Kind, rowID id.ID, change int64) (int64, bool, error) {
	var (
		qty     int64
		applied bool
	)
	err := r.s.write(ctx, func(st *state) error {
		switch kind {
		case stock.KindMedicine:
			m, ok := st.medicines[rowID]
			if !ok {
				return apperror.NewNotFound(string(kind), rowID.String())
			}
			qty = m.Quantity
			if !fits(qty, change) {
				return nil
			}
			m.Quantity += change
			st.medicines[rowID] = m
		case stock.KindProduct:
			p, ok := st.products[rowID]
			if !ok {
				return apperror.NewNotFound(string(kind), rowID.String())
			}
			qty = p.Quantity
			if !fits(qty, change) {
				return nil
			}
			p.Quantity += change
			st.products[rowID] = p
		default:
			return fmt.Errorf("unknown stock kind %q", kind)
		}
		qty += change
		applied = true
		return nil
	})
	return qty, applied, err
}

// fits mirrors the storage guard: the result must be non-negative and
// representable.
func fits(qty, change int64) bool {
	if change > 0 {
		return qty <= math.MaxInt64-change
	}
	return qty+change >= 0
}
