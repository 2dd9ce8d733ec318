// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/invoice"
	"pharmacy/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable      = "invoices"
	invoiceItemsTable = "invoice_items"
)

var itemColumns = []string{"id", "invoice_id", "quantity", "price", "medicine_id", "product_id"}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[invoice.Invoice](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *InvoiceRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InvoiceRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(invoiceTable)
}

// Create inserts the header.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	sql, args, err := r.Builder().
		Insert(invoiceTable).
		SetMap(postgres.StructToMap(inv)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert invoice: %w", err), "invoice")
	}
	return nil
}

// GetByID returns the header with its items.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.get(ctx, r.baseSelect().Where(squirrel.Eq{"id": invoiceID}), invoiceID)
}

// GetForUpdate row-locks the header and returns it with its items.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	if !r.txm.InTx(ctx) {
		return nil, fmt.Errorf("lock invoice: row locks require a transaction")
	}
	return r.get(ctx, r.baseSelect().Where(squirrel.Eq{"id": invoiceID}).Suffix("FOR UPDATE"), invoiceID)
}

func (r *InvoiceRepo) get(ctx context.Context, q squirrel.SelectBuilder, invoiceID id.ID) (*invoice.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", invoiceID.String())
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	items, err := r.getItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *InvoiceRepo) getItems(ctx context.Context, invoiceID id.ID) ([]invoice.Item, error) {
	sql, args, err := r.Builder().
		Select(itemColumns...).
		From(invoiceItemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []invoice.Item{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	return items, nil
}

// Update writes date, total and updated_at.
func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	sql, args, err := r.Builder().
		Update(invoiceTable).
		Set("date", inv.Date).
		Set("total_amount", inv.TotalAmount).
		Set("updated_at", inv.UpdatedAt).
		Where(squirrel.Eq{"id": inv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", inv.ID.String())
	}
	return nil
}

// Delete removes the header.
func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, "DELETE FROM "+invoiceTable+" WHERE id = $1", invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invoiceID.String())
	}
	return nil
}

// SaveItems replaces the item set (delete existing + insert new).
func (r *InvoiceRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []invoice.Item) error {
	if err := r.DeleteItems(ctx, invoiceID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	sql, args, err := r.insertItemsQuery(invoiceID, items).ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert invoice items: %w", err), "invoice item")
	}
	return nil
}

func (r *InvoiceRepo) insertItemsQuery(invoiceID id.ID, items []invoice.Item) squirrel.InsertBuilder {
	q := r.Builder().
		Insert(invoiceItemsTable).
		Columns(itemColumns...)
	for _, item := range items {
		q = q.Values(item.ID, invoiceID, item.Quantity, item.Price, item.MedicineID, item.ProductID)
	}
	return q
}

// DeleteItems removes every item of the invoice.
func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID id.ID) error {
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, "DELETE FROM "+invoiceItemsTable+" WHERE invoice_id = $1", invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) listQuery(filter invoice.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return q
}

// List returns headers without items, newest date first.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Items:  []*invoice.Invoice{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.listQuery(filter)

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count invoices: %w", err)
	}

	q = q.OrderBy("date DESC", "created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}
	return result, nil
}
