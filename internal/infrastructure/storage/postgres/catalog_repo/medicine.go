package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/infrastructure/storage/postgres"
)

const medicineTable = "medicines"

var _ medicine.Repository = (*MedicineRepo)(nil)

// MedicineRepo implements medicine.Repository.
type MedicineRepo struct {
	*BaseCatalogRepo[*medicine.Medicine]
}

// NewMedicineRepo creates a new medicine repository.
func NewMedicineRepo(txm *postgres.TxManager) *MedicineRepo {
	return &MedicineRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			medicineTable,
			"medicine",
			postgres.ExtractDBColumns[medicine.Medicine](),
			func() *medicine.Medicine { return &medicine.Medicine{} },
		),
	}
}

// FindByNameAndBrand looks a medicine up by its natural key.
func (r *MedicineRepo) FindByNameAndBrand(ctx context.Context, name string, brandID id.ID) (*medicine.Medicine, error) {
	m, ok, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"name": name, "brand_id": brandID}))
	if err != nil || !ok {
		return nil, err
	}
	return m, nil
}

// UpdatePricing overwrites price and expiry date.
func (r *MedicineRepo) UpdatePricing(ctx context.Context, medicineID id.ID, price types.Money, expiry time.Time) error {
	sql, args, err := r.Builder().
		Update(medicineTable).
		Set("price", price).
		Set("expiry_date", expiry).
		Where(squirrel.Eq{"id": medicineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("update medicine pricing: %w", err), "medicine")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("medicine", medicineID.String())
	}
	return nil
}
