package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/infrastructure/storage/postgres"
)

const brandTable = "brands"

var _ brand.Repository = (*BrandRepo)(nil)

// BrandRepo implements brand.Repository.
type BrandRepo struct {
	*BaseCatalogRepo[*brand.Brand]
}

// NewBrandRepo creates a new brand repository.
func NewBrandRepo(txm *postgres.TxManager) *BrandRepo {
	return &BrandRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			brandTable,
			"brand",
			postgres.ExtractDBColumns[brand.Brand](),
			func() *brand.Brand { return &brand.Brand{} },
		),
	}
}

// FindByName retrieves a brand by exact name, or nil.
func (r *BrandRepo) FindByName(ctx context.Context, name string) (*brand.Brand, error) {
	b, ok, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"name": name}))
	if err != nil || !ok {
		return nil, err
	}
	return b, nil
}

// CreateIfAbsent inserts b or returns the row that already holds its name.
// The no-op update makes RETURNING yield the existing row under a race.
func (r *BrandRepo) CreateIfAbsent(ctx context.Context, b *brand.Brand) (*brand.Brand, error) {
	sql, args, err := r.createIfAbsentQuery(b).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	var stored brand.Brand
	if err := pgxscan.Get(ctx, r.querier(ctx), &stored, sql, args...); err != nil {
		return nil, fmt.Errorf("upsert brand: %w", err)
	}
	return &stored, nil
}

func (r *BrandRepo) createIfAbsentQuery(b *brand.Brand) squirrel.InsertBuilder {
	return r.Builder().
		Insert(brandTable).
		Columns("id", "name", "manufacturer").
		Values(b.ID, b.Name, b.Manufacturer).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name, manufacturer")
}
