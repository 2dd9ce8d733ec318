// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmacy/internal/app"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/infrastructure/http/v1/dto"
	"pharmacy/internal/infrastructure/http/v1/handlers"
	"pharmacy/internal/infrastructure/http/v1/middleware"
	"pharmacy/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Services backing every endpoint
	Services *app.Services

	// Health serves /health; nil disables it
	Health *handlers.HealthHandler

	// Mode is the gin mode (release, debug, test)
	Mode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if cfg.Health != nil {
		health := router.Group("/health")
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
		health.GET("/info", cfg.Health.Info)
	}

	v1 := router.Group("/api/v1")
	registerCatalogRoutes(v1, cfg.Services)
	registerInvoiceRoutes(v1, cfg.Services)

	return router
}

// registerCatalogRoutes registers catalog endpoints. Brands and medicines are
// maintained by purchases and are read-only over HTTP.
func registerCatalogRoutes(rg *gin.RouterGroup, svc *app.Services) {
	base := handlers.NewBaseHandler()

	RegisterCatalogRoutes(rg.Group("/suppliers"), handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest]{
			Reader:       svc.Suppliers,
			Creator:      svc.Suppliers,
			MapCreateDTO: dto.CreateSupplierRequest.ToEntity,
			MapToDTO:     dto.FromSupplier,
		}))

	RegisterCatalogRoutes(rg.Group("/customers"), handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest]{
			Reader:       svc.Customers,
			Creator:      svc.Customers,
			MapCreateDTO: dto.CreateCustomerRequest.ToEntity,
			MapToDTO:     dto.FromCustomer,
		}))

	RegisterCatalogRoutes(rg.Group("/products"), handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*product.Product, dto.CreateProductRequest]{
			Reader:       svc.Products,
			Creator:      svc.Products,
			MapCreateDTO: dto.CreateProductRequest.ToEntity,
			MapToDTO:     dto.FromProduct,
		}))

	RegisterCatalogRoutes(rg.Group("/medicines"), handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*medicine.Medicine, struct{}]{
			Reader:   svc.Medicines,
			MapToDTO: dto.FromMedicine,
		}))

	RegisterCatalogRoutes(rg.Group("/brands"), handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*brand.Brand, struct{}]{
			Reader:   svc.Brands,
			MapToDTO: dto.FromBrand,
		}))
}

// registerInvoiceRoutes registers invoice endpoints.
func registerInvoiceRoutes(rg *gin.RouterGroup, svc *app.Services) {
	handler := handlers.NewInvoiceHandler(handlers.NewBaseHandler(), svc.Invoices)
	RegisterInvoiceRoutes(rg.Group("/invoices"), handler)
}
