package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain"
)

// CatalogReader is the read side every catalog service offers.
type CatalogReader[T any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogCreator is implemented by catalogs that accept direct creation.
type CatalogCreator[T any] interface {
	Create(ctx context.Context, entity T) error
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T any, CreateDTO any] struct {
	*BaseHandler
	reader  CatalogReader[T]
	creator CatalogCreator[T]

	mapCreateDTO func(dto CreateDTO) (T, error)
	mapToDTO     func(entity T) any
}

// CatalogHandlerConfig configures the catalog handler. Creator and
// MapCreateDTO are nil for read-only catalogs.
type CatalogHandlerConfig[T any, CreateDTO any] struct {
	Reader       CatalogReader[T]
	Creator      CatalogCreator[T]
	MapCreateDTO func(dto CreateDTO) (T, error)
	MapToDTO     func(entity T) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T any, CreateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO],
) *CatalogHandler[T, CreateDTO] {
	return &CatalogHandler[T, CreateDTO]{
		BaseHandler:  base,
		reader:       cfg.Reader,
		creator:      cfg.Creator,
		mapCreateDTO: cfg.MapCreateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// CanCreate reports whether the catalog exposes POST.
func (h *CatalogHandler[T, CreateDTO]) CanCreate() bool {
	return h.creator != nil && h.mapCreateDTO != nil
}

// List handles GET /{entity}.
func (h *CatalogHandler[T, CreateDTO]) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", domain.DefaultLimit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.reader.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = h.mapToDTO(item)
	}
	h.Paged(c, items, result.TotalCount, result.Limit, result.Offset)
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entity, err := h.reader.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(entity))
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.mapCreateDTO(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.creator.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.mapToDTO(entity))
}
