package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/invoice"
)

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[medicine.Medicine]()

	assert.Equal(t, []string{
		"id", "name", "brand_id", "quantity", "price", "expiry_date", "supplier_id", "location", "category",
	}, cols)
}

func TestExtractDBColumns_SkipsIgnored(t *testing.T) {
	cols := ExtractDBColumns[invoice.Invoice]()

	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "total_amount")
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, 7)
}

func TestStructToMap(t *testing.T) {
	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	brandID := id.New()
	m := &medicine.Medicine{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        "Paracetamol 500mg",
		BrandID:     brandID,
		Quantity:    12,
		Price:       types.MustMoney("3.40"),
		ExpiryDate:  expiry,
		Location:    "A1",
	}

	got := StructToMap(m)

	assert.Equal(t, m.ID, got["id"])
	assert.Equal(t, "Paracetamol 500mg", got["name"])
	assert.Equal(t, brandID, got["brand_id"])
	assert.Equal(t, int64(12), got["quantity"])
	assert.Equal(t, expiry, got["expiry_date"])
	assert.Nil(t, got["supplier_id"])
	assert.Len(t, got, 9)

	// second call is served from the metadata cache
	assert.Equal(t, got, StructToMap(m))
}
