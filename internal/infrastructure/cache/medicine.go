// Package cache provides the Redis read cache for medicine lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/pkg/logger"
)

const (
	keyPrefix     = "pharmacy:medicine"
	generationKey = keyPrefix + ":gen"
)

var _ medicine.Cache = (*MedicineCache)(nil)

// MedicineCache caches single medicine reads under a generation number.
// Bumping the generation orphans every cached entry; orphans expire by TTL.
type MedicineCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMedicineCache creates the cache.
func NewMedicineCache(client *redis.Client, ttl time.Duration) *MedicineCache {
	return &MedicineCache{client: client, ttl: ttl}
}

func (c *MedicineCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *MedicineCache) key(ctx context.Context, medicineID id.ID) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, gen, medicineID), nil
}

// GetMedicine returns a cached medicine. Any Redis failure is a miss.
func (c *MedicineCache) GetMedicine(ctx context.Context, medicineID id.ID) (*medicine.Medicine, bool) {
	key, err := c.key(ctx, medicineID)
	if err != nil {
		logger.Warn(ctx, "medicine cache unavailable", "error", err)
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "medicine cache read failed", "medicine_id", medicineID, "error", err)
		}
		return nil, false
	}

	var m medicine.Medicine
	if err := json.Unmarshal(payload, &m); err != nil {
		logger.Warn(ctx, "medicine cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &m, true
}

// SetMedicine stores m under the current generation.
func (c *MedicineCache) SetMedicine(ctx context.Context, m *medicine.Medicine) {
	key, err := c.key(ctx, m.ID)
	if err != nil {
		logger.Warn(ctx, "medicine cache unavailable", "error", err)
		return
	}

	payload, err := json.Marshal(m)
	if err != nil {
		logger.Warn(ctx, "medicine cache encode failed", "medicine_id", m.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "medicine cache write failed", "medicine_id", m.ID, "error", err)
	}
}

// Invalidate bumps the generation so every cached medicine is re-read.
func (c *MedicineCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump medicine cache generation: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (c *MedicineCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
