package memory

import (
	"context"
	"slices"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/invoice"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return apperror.NewDuplicate("invoice", "id", inv.ID.String())
		}
		header := *inv
		header.Items = nil
		st.invoices[inv.ID] = header
		return nil
	})
}

func (r *InvoiceRepo) load(st *state, invoiceID id.ID) (*invoice.Invoice, error) {
	header, ok := st.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	header.Items = slices.Clone(st.items[invoiceID])
	if header.Items == nil {
		header.Items = []invoice.Item{}
	}
	return &header, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := r.s.read(ctx, func(st *state) error {
		var err error
		out, err = r.load(st, invoiceID)
		return err
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	if !r.s.inTx(ctx) {
		return nil, errLockOutsideTx
	}
	r.s.recordLocks("invoices", []id.ID{invoiceID})
	return r.load(r.s.st, invoiceID)
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.s.write(ctx, func(st *state) error {
		header, ok := st.invoices[inv.ID]
		if !ok {
			return apperror.NewNotFound("invoice", inv.ID.String())
		}
		header.Date = inv.Date
		header.TotalAmount = inv.TotalAmount
		header.UpdatedAt = inv.UpdatedAt
		st.invoices[inv.ID] = header
		return nil
	})
}

func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.invoices[invoiceID]; !ok {
			return apperror.NewNotFound("invoice", invoiceID.String())
		}
		if len(st.items[invoiceID]) > 0 {
			return apperror.NewConflict("invoice still has items")
		}
		delete(st.invoices, invoiceID)
		delete(st.items, invoiceID)
		return nil
	})
}

func (r *InvoiceRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []invoice.Item) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.invoices[invoiceID]; !ok {
			return apperror.NewNotFound("invoice", invoiceID.String())
		}
		st.items[invoiceID] = slices.Clone(items)
		return nil
	})
}

func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID id.ID) error {
	return r.s.write(ctx, func(st *state) error {
		delete(st.items, invoiceID)
		return nil
	})
}

// List orders by date descending, newest created first within a date.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Items:  make([]*invoice.Invoice, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	err := r.s.read(ctx, func(st *state) error {
		matched := make([]invoice.Invoice, 0, len(st.invoices))
		for _, inv := range st.invoices {
			if filter.Type != "" && inv.Type != filter.Type {
				continue
			}
			if filter.CustomerID != nil && (inv.CustomerID == nil || *inv.CustomerID != *filter.CustomerID) {
				continue
			}
			if filter.DateFrom != nil && inv.Date.Before(*filter.DateFrom) {
				continue
			}
			if filter.DateTo != nil && inv.Date.After(*filter.DateTo) {
				continue
			}
			matched = append(matched, inv)
		}

		slices.SortFunc(matched, func(a, b invoice.Invoice) int {
			if c := b.Date.Compare(a.Date); c != 0 {
				return c
			}
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return id.Compare(b.ID, a.ID)
		})

		result.TotalCount = int64(len(matched))
		for i := filter.Offset; i < len(matched) && (filter.Limit <= 0 || i < filter.Offset+filter.Limit); i++ {
			inv := matched[i]
			result.Items = append(result.Items, &inv)
		}
		return nil
	})
	return result, err
}
