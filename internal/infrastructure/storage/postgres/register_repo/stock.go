// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/registers/stock"
	"pharmacy/internal/infrastructure/storage/postgres"
)

var stockTables = map[stock.Kind]string{
	stock.KindMedicine: "medicines",
	stock.KindProduct:  "products",
}

var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository over the catalog quantity columns.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// addQuery is a guarded increment: the row only changes when the result
// stays non-negative.
func (r *StockRepo) addQuery(table string, rowID id.ID, change int64) squirrel.UpdateBuilder {
	return r.builder.
		Update(table).
		Set("quantity", squirrel.Expr("quantity + ?", change)).
		Where(squirrel.Eq{"id": rowID}).
		Where(squirrel.Expr("quantity + ? >= 0", change)).
		Suffix("RETURNING quantity")
}

// AddQuantity implements stock.Repository.
func (r *StockRepo) AddQuantity(ctx context.Context, kind stock.Kind, rowID id.ID, change int64) (int64, bool, error) {
	table, ok := stockTables[kind]
	if !ok {
		return 0, false, fmt.Errorf("unknown stock kind %q", kind)
	}

	sql, args, err := r.addQuery(table, rowID, change).ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build stock update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)

	var qty int64
	err = querier.QueryRow(ctx, sql, args...).Scan(&qty)
	if err == nil {
		return qty, true, nil
	}
	if !postgres.IsNoRows(err) {
		return 0, false, postgres.MapError(fmt.Errorf("update %s quantity: %w", kind, err), string(kind))
	}

	// The guard rejected the change or the row is missing.
	err = querier.QueryRow(ctx, "SELECT quantity FROM "+table+" WHERE id = $1", rowID).Scan(&qty)
	if postgres.IsNoRows(err) {
		return 0, false, apperror.NewNotFound(string(kind), rowID.String())
	}
	if err != nil {
		return 0, false, fmt.Errorf("read %s quantity: %w", kind, err)
	}
	return qty, false, nil
}
