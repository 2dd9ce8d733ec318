package product

import (
	"context"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/catalogs/supplier"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	suppliers supplier.Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, suppliers supplier.Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		suppliers:      suppliers,
	}
	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate checks the supplier reference. New products start without
// stock; quantities only change through purchase invoices.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	ok, err := s.suppliers.Exists(ctx, p.SupplierID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("supplier", p.SupplierID.String())
	}
	p.Quantity = 0
	return nil
}
