// Package resolver links the wholesale and retail catalogs: a purchase of a
// product provisions (or replenishes) the retail medicine with the same name
// and brand.
package resolver

import (
	"context"
	"fmt"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/domain/registers/stock"
	"pharmacy/pkg/logger"
)

// Defaults are placeholder values for medicines created from a purchase.
type Defaults struct {
	Location string
	Category string
}

// Service resolves brands and medicines from purchased products.
type Service struct {
	brands    brand.Repository
	medicines medicine.Repository
	suppliers supplier.Repository
	ledger    *stock.Ledger
	txManager tx.Manager
	defaults  Defaults
}

// Config wires the resolver's collaborators.
type Config struct {
	Brands    brand.Repository
	Medicines medicine.Repository
	Suppliers supplier.Repository
	Ledger    *stock.Ledger
	TxManager tx.Manager
	Defaults  Defaults
}

// NewService creates a new resolver.
func NewService(cfg Config) *Service {
	return &Service{
		brands:    cfg.Brands,
		medicines: cfg.Medicines,
		suppliers: cfg.Suppliers,
		ledger:    cfg.Ledger,
		txManager: cfg.TxManager,
		defaults:  cfg.Defaults,
	}
}

// ResolveMedicineFromPurchase adds quantity units of p to the retail catalog.
// The brand is created when missing; the medicine is created when missing,
// otherwise its price and expiry are overwritten with the product's.
// Runs in the caller's transaction when there is one.
func (s *Service) ResolveMedicineFromPurchase(ctx context.Context, p *product.Product, quantity int64) (id.ID, error) {
	if quantity <= 0 {
		return id.Nil(), apperror.NewValidation("purchased quantity must be positive").
			WithDetail("productId", p.ID.String()).
			WithDetail("quantity", quantity)
	}

	var medicineID id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.resolveBrand(ctx, p)
		if err != nil {
			return err
		}

		m, err := s.medicines.FindByNameAndBrand(ctx, p.Name, b.ID)
		if err != nil {
			return fmt.Errorf("find medicine: %w", err)
		}

		if m == nil {
			m, err = s.createMedicine(ctx, p, b)
			if err != nil {
				return err
			}
		} else if err := s.medicines.UpdatePricing(ctx, m.ID, p.Price, p.ExpiryDate); err != nil {
			return fmt.Errorf("update medicine pricing: %w", err)
		}

		if _, err := s.ledger.Apply(ctx, stock.Movement{
			Kind:   stock.KindMedicine,
			ID:     m.ID,
			Change: quantity,
			Cause:  stock.CausePurchase,
		}); err != nil {
			return err
		}

		medicineID = m.ID
		return nil
	})
	if err != nil {
		return id.Nil(), err
	}
	return medicineID, nil
}

// WithdrawMedicineFromPurchase removes quantity units of p from the retail
// catalog. A missing linked medicine counts as zero available stock.
func (s *Service) WithdrawMedicineFromPurchase(ctx context.Context, p *product.Product, quantity int64) error {
	if quantity <= 0 {
		return nil
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.FindLinked(ctx, p)
		if err != nil {
			return err
		}
		if m == nil {
			return apperror.NewNegativeStock(string(stock.KindMedicine), p.ID.String(), quantity, 0).
				WithDetail("reason", "no retail medicine linked to product")
		}

		_, err = s.ledger.Apply(ctx, stock.Movement{
			Kind:   stock.KindMedicine,
			ID:     m.ID,
			Change: -quantity,
			Cause:  stock.CausePurchase,
		})
		return err
	})
}

// FindLinked returns the medicine currently provisioned for p, or nil.
func (s *Service) FindLinked(ctx context.Context, p *product.Product) (*medicine.Medicine, error) {
	b, err := s.brands.FindByName(ctx, p.BrandName)
	if err != nil {
		return nil, fmt.Errorf("find brand: %w", err)
	}
	if b == nil {
		return nil, nil
	}

	m, err := s.medicines.FindByNameAndBrand(ctx, p.Name, b.ID)
	if err != nil {
		return nil, fmt.Errorf("find medicine: %w", err)
	}
	return m, nil
}

func (s *Service) resolveBrand(ctx context.Context, p *product.Product) (*brand.Brand, error) {
	b, err := s.brands.FindByName(ctx, p.BrandName)
	if err != nil {
		return nil, fmt.Errorf("find brand: %w", err)
	}
	if b != nil {
		return b, nil
	}

	manufacturer := ""
	sup, err := s.suppliers.GetByID(ctx, p.SupplierID)
	switch {
	case err == nil:
		manufacturer = sup.Name
	case apperror.IsNotFound(err):
	default:
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	candidate := brand.NewBrand(p.BrandName, manufacturer)
	if err := candidate.Validate(ctx); err != nil {
		return nil, err
	}

	b, err = s.brands.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	logger.Info(ctx, "brand provisioned from purchase", "brand", b.Name, "brand_id", b.ID)
	return b, nil
}

func (s *Service) createMedicine(ctx context.Context, p *product.Product, b *brand.Brand) (*medicine.Medicine, error) {
	supplierID := p.SupplierID
	m := &medicine.Medicine{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        p.Name,
		BrandID:     b.ID,
		Quantity:    0,
		Price:       p.Price,
		ExpiryDate:  p.ExpiryDate,
		SupplierID:  &supplierID,
		Location:    s.defaults.Location,
		Category:    s.defaults.Category,
	}
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.medicines.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	logger.Info(ctx, "medicine provisioned from purchase",
		"medicine_id", m.ID,
		"name", m.Name,
		"brand_id", b.ID,
	)
	return m, nil
}
