// Package app assembles repositories and services for one storage backend.
package app

import (
	"context"

	"pharmacy/internal/config"
	"pharmacy/internal/core/tx"
	"pharmacy/internal/domain/audit"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/resolver"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/domain/invoice"
	"pharmacy/internal/domain/registers/stock"
	"pharmacy/internal/infrastructure/storage/memory"
	"pharmacy/internal/infrastructure/storage/postgres"
	"pharmacy/internal/infrastructure/storage/postgres/catalog_repo"
	"pharmacy/internal/infrastructure/storage/postgres/document_repo"
	"pharmacy/internal/infrastructure/storage/postgres/register_repo"
)

// Repositories is one backend's set of stores.
type Repositories struct {
	TxManager tx.Manager
	Brands    brand.Repository
	Suppliers supplier.Repository
	Customers customer.Repository
	Medicines medicine.Repository
	Products  product.Repository
	Invoices  invoice.Repository
	Stock     stock.Repository

	// Audit is nil when audit is disabled.
	Audit audit.Store

	// Ping reports backend health.
	Ping func(ctx context.Context) error
}

// MemoryRepositories backs every repository with one in-memory store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		TxManager: store,
		Brands:    store.Brands(),
		Suppliers: store.Suppliers(),
		Customers: store.Customers(),
		Medicines: store.Medicines(),
		Products:  store.Products(),
		Invoices:  store.Invoices(),
		Stock:     store.Stock(),
		Audit:     store.Audit(),
		Ping:      store.Ping,
	}
}

// PostgresRepositories backs every repository with PostgreSQL through txm.
func PostgresRepositories(txm *postgres.TxManager, auditSvc *postgres.AuditService) Repositories {
	repos := Repositories{
		TxManager: txm,
		Brands:    catalog_repo.NewBrandRepo(txm),
		Suppliers: catalog_repo.NewSupplierRepo(txm),
		Customers: catalog_repo.NewCustomerRepo(txm),
		Medicines: catalog_repo.NewMedicineRepo(txm),
		Products:  catalog_repo.NewProductRepo(txm),
		Invoices:  document_repo.NewInvoiceRepo(txm),
		Stock:     register_repo.NewStockRepo(txm),
		Ping:      txm.Ping,
	}
	if auditSvc != nil {
		repos.Audit = auditSvc
	}
	return repos
}

// Services are the domain services the HTTP layer consumes.
type Services struct {
	Brands    *brand.Service
	Suppliers *supplier.Service
	Customers *customer.Service
	Products  *product.Service
	Medicines *medicine.Service
	Ledger    *stock.Ledger
	Resolver  *resolver.Service
	Invoices  *invoice.Service
}

// NewServices builds the service graph over repos. cache may be nil.
func NewServices(repos Repositories, cfg config.Config, cache medicine.Cache) *Services {
	ledger := stock.NewLedger(repos.Stock)

	res := resolver.NewService(resolver.Config{
		Brands:    repos.Brands,
		Medicines: repos.Medicines,
		Suppliers: repos.Suppliers,
		Ledger:    ledger,
		TxManager: repos.TxManager,
		Defaults: resolver.Defaults{
			Location: cfg.MedicineDefaultLocation,
			Category: cfg.MedicineDefaultCategory,
		},
	})

	return &Services{
		Brands:    brand.NewService(repos.Brands, repos.TxManager),
		Suppliers: supplier.NewService(repos.Suppliers, repos.TxManager),
		Customers: customer.NewService(repos.Customers, repos.TxManager),
		Products:  product.NewService(repos.Products, repos.Suppliers, repos.TxManager),
		Medicines: medicine.NewService(repos.Medicines, cache),
		Ledger:    ledger,
		Resolver:  res,
		Invoices: invoice.NewService(invoice.Config{
			Repo:      repos.Invoices,
			Customers: repos.Customers,
			Medicines: repos.Medicines,
			Products:  repos.Products,
			Ledger:    ledger,
			Resolver:  res,
			TxManager: repos.TxManager,
			Audit:     repos.Audit,
		}),
	}
}
