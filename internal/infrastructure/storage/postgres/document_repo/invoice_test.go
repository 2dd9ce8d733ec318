package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/invoice"
)

func TestInvoiceRepo_ListQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	customerID := id.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	const cols = "SELECT id, created_at, updated_at, date, type, total_amount, customer_id FROM invoices"

	tests := []struct {
		name     string
		filter   invoice.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter",
			wantSQL: cols,
		},
		{
			name:     "type",
			filter:   invoice.ListFilter{Type: invoice.TypeSale},
			wantSQL:  cols + " WHERE type = $1",
			wantArgs: []any{invoice.TypeSale},
		},
		{
			name:     "date range",
			filter:   invoice.ListFilter{DateFrom: &from, DateTo: &to},
			wantSQL:  cols + " WHERE date >= $1 AND date <= $2",
			wantArgs: []any{from, to},
		},
		{
			name:    "customer",
			filter:  invoice.ListFilter{CustomerID: &customerID},
			wantSQL: cols + " WHERE customer_id = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs != nil {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestInvoiceRepo_InsertItemsQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	invoiceID := id.New()
	medicineID := id.New()
	items := []invoice.Item{
		{ID: id.New(), Quantity: 2, Price: types.MustMoney("1.50"), MedicineID: &medicineID},
		{ID: id.New(), Quantity: 1, Price: types.MustMoney("4.00"), MedicineID: &medicineID},
	}

	sql, args, err := repo.insertItemsQuery(invoiceID, items).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO invoice_items (id,invoice_id,quantity,price,medicine_id,product_id) "+
			"VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12)",
		sql)
	assert.Len(t, args, 12)
	assert.Equal(t, invoiceID, args[1])
	assert.Equal(t, int64(2), args[2])
}
