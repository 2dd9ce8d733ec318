package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	CanCreate() bool
}

// InvoiceRouteHandler defines the interface for invoice handlers.
type InvoiceRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	History(c *gin.Context)
}

// RegisterCatalogRoutes registers the read routes for a catalog, plus POST
// when the handler accepts creation.
//
// Usage:
//
//	handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[...]{...})
//	RegisterCatalogRoutes(api.Group("/suppliers"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	if handler.CanCreate() {
		group.POST("", handler.Create)
	}
}

// RegisterInvoiceRoutes registers CRUD routes for invoices plus the audit
// trail.
func RegisterInvoiceRoutes(group *gin.RouterGroup, handler InvoiceRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/history", handler.History)
}
