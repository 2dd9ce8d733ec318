package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/catalogs/brand"
)

func TestMedicineRepo_SelectColumns(t *testing.T) {
	repo := NewMedicineRepo(nil)

	sql, _, err := repo.baseSelect().ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name, brand_id, quantity, price, expiry_date, supplier_id, location, category FROM medicines",
		sql)
}

func TestBaseCatalogRepo_ListQuery(t *testing.T) {
	repo := NewSupplierRepo(nil)
	a, b := id.New(), id.New()

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "no filter",
			filter:  domain.ListFilter{},
			wantSQL: "SELECT id, name, phone, email FROM suppliers",
		},
		{
			name:     "search",
			filter:   domain.ListFilter{Search: "acme"},
			wantSQL:  "SELECT id, name, phone, email FROM suppliers WHERE name ILIKE $1",
			wantArgs: 1,
		},
		{
			name:     "search and ids",
			filter:   domain.ListFilter{Search: "acme", IDs: []id.ID{a, b}},
			wantSQL:  "SELECT id, name, phone, email FROM suppliers WHERE name ILIKE $1 AND id IN ($2,$3)",
			wantArgs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestBaseCatalogRepo_LockQueryOrdersByID(t *testing.T) {
	repo := NewProductRepo(nil)
	ids := []id.ID{id.New(), id.New()}

	sql, args, err := repo.lockQuery(ids).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, supplier_id, brand_name, name, price, quantity, expiry_date FROM products WHERE id IN ($1,$2) ORDER BY id FOR UPDATE",
		sql)
	assert.Len(t, args, 2)
}

func TestBrandRepo_CreateIfAbsentQuery(t *testing.T) {
	repo := NewBrandRepo(nil)
	b := brand.NewBrand("Panadol", "GSK")

	sql, args, err := repo.createIfAbsentQuery(b).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO brands (id,name,manufacturer) VALUES ($1,$2,$3) "+
			"ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name, manufacturer",
		sql)
	assert.Equal(t, []any{b.ID, "Panadol", "GSK"}, args)
}
