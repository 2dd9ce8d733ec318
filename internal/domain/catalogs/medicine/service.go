package medicine

import (
	"context"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
)

// Cache is a read-through cache for single medicine reads.
// Implementations swallow their own failures; a miss falls back to the repository.
type Cache interface {
	GetMedicine(ctx context.Context, medicineID id.ID) (*Medicine, bool)
	SetMedicine(ctx context.Context, m *Medicine)
}

// Service exposes medicine reads. Medicines are written by the catalog
// resolver and the stock ledger only.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a new Medicine service. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetByID returns a medicine, consulting the cache first.
func (s *Service) GetByID(ctx context.Context, medicineID id.ID) (*Medicine, error) {
	if s.cache != nil {
		if m, ok := s.cache.GetMedicine(ctx, medicineID); ok {
			return m, nil
		}
	}

	m, err := s.repo.GetByID(ctx, medicineID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("medicine", medicineID.String())
		}
		return nil, apperror.Normalize(err)
	}

	if s.cache != nil {
		s.cache.SetMedicine(ctx, m)
	}
	return m, nil
}

// List retrieves medicines with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Medicine], error) {
	filter.Limit, filter.Offset = domain.Page(filter.Limit, filter.Offset)
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return result, apperror.Normalize(err)
	}
	return result, nil
}
