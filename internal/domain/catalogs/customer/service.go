package customer

import (
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "customer",
		}),
	}
}
