package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/catalogs/medicine"
)

func newTestCache(t *testing.T) (*MedicineCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMedicineCache(client, time.Minute), mr
}

func sampleMedicine() *medicine.Medicine {
	return &medicine.Medicine{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        "Ibuprofen 200mg",
		BrandID:     id.New(),
		Quantity:    40,
		Price:       types.MustMoney("2.75"),
		ExpiryDate:  time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		Location:    "B2",
		Category:    "analgesic",
	}
}

func TestMedicineCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	m := sampleMedicine()

	_, ok := c.GetMedicine(ctx, m.ID)
	assert.False(t, ok)

	c.SetMedicine(ctx, m)

	got, ok := c.GetMedicine(ctx, m.ID)
	require.True(t, ok)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, int64(40), got.Quantity)
	assert.True(t, m.Price.Equal(got.Price))
	assert.True(t, m.ExpiryDate.Equal(got.ExpiryDate))
}

func TestMedicineCache_InvalidateOrphansEntries(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	m := sampleMedicine()

	c.SetMedicine(ctx, m)
	require.NoError(t, c.Invalidate(ctx))

	_, ok := c.GetMedicine(ctx, m.ID)
	assert.False(t, ok)

	c.SetMedicine(ctx, m)
	_, ok = c.GetMedicine(ctx, m.ID)
	assert.True(t, ok)
}

func TestMedicineCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	m := sampleMedicine()

	c.SetMedicine(ctx, m)
	mr.FastForward(2 * time.Minute)

	_, ok := c.GetMedicine(ctx, m.ID)
	assert.False(t, ok)
}

func TestMedicineCache_RedisDownIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	m := sampleMedicine()

	mr.Close()

	c.SetMedicine(ctx, m)
	_, ok := c.GetMedicine(ctx, m.ID)
	assert.False(t, ok)
	assert.Error(t, c.Invalidate(ctx))
	assert.Error(t, c.Ping(ctx))
}

func TestMedicineService_ReadThrough(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	m := sampleMedicine()

	repo := &countingRepo{m: m}
	svc := medicine.NewService(repo, c)

	for i := 0; i < 3; i++ {
		got, err := svc.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
	}
	assert.Equal(t, 1, repo.calls)

	require.NoError(t, c.Invalidate(ctx))
	_, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

type countingRepo struct {
	medicine.Repository
	m     *medicine.Medicine
	calls int
}

func (r *countingRepo) GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error) {
	r.calls++
	return r.m, nil
}
