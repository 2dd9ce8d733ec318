package brand

import (
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain"
)

// Service exposes brand reads. Brands are written by the catalog resolver.
type Service struct {
	*domain.CatalogService[*Brand]
}

// NewService creates a new Brand service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Brand]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "brand",
		}),
	}
}
