package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/domain/registers/stock"
)

func TestRunInTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()

	kept := customer.NewCustomer("Kept", "")
	require.NoError(t, s.Customers().Create(ctx, kept))

	boom := errors.New("boom")
	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Customers().Create(ctx, customer.NewCustomer("Dropped", "")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Customers().List(ctx, domain.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, kept.ID, list.Items[0].ID)
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.Panics(t, func() {
		_ = s.RunInTransaction(ctx, func(ctx context.Context) error {
			_ = s.Suppliers().Create(ctx, supplier.NewSupplier("Ghost", "", ""))
			panic("boom")
		})
	})

	list, err := s.Suppliers().List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.Customers().Create(ctx, customer.NewCustomer("Inner", ""))
		})
	})
	require.NoError(t, err)

	list, err := s.Customers().List(ctx, domain.ListFilter{Search: "inn"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
}

func TestLockOutsideTransaction(t *testing.T) {
	_, err := New().Medicines().LockByIDs(context.Background(), []id.ID{id.New()})
	assert.ErrorIs(t, err, errLockOutsideTx)
}

func TestAddQuantityGuard(t *testing.T) {
	ctx := context.Background()
	s := New()

	qty, applied, err := s.Stock().AddQuantity(ctx, stock.KindProduct, id.New(), 1)
	assert.Error(t, err)
	assert.False(t, applied)
	assert.Zero(t, qty)
}

func TestAddQuantityRejectsOverflow(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := product.NewProduct(id.New(), "Acme", "Paracetamol", types.MustMoney("1.50"), time.Now().AddDate(1, 0, 0))
	p.Quantity = math.MaxInt64 - 1
	s.st.products[p.ID] = *p

	qty, applied, err := s.Stock().AddQuantity(ctx, stock.KindProduct, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, int64(math.MaxInt64-1), qty)
	assert.Equal(t, int64(math.MaxInt64-1), s.st.products[p.ID].Quantity)

	qty, applied, err = s.Stock().AddQuantity(ctx, stock.KindProduct, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(math.MaxInt64), qty)
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, name := range []string{"Delta", "Alpha", "Charlie", "Bravo"} {
		require.NoError(t, s.Customers().Create(ctx, customer.NewCustomer(name, "")))
	}

	page, err := s.Customers().List(ctx, domain.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Bravo", page.Items[0].Name)
	assert.Equal(t, "Charlie", page.Items[1].Name)
}
