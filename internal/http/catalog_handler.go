package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/repository"
)

// CatalogHandler expone banners, categorias y eventos. El catalogo es
// publico, no requiere token.
type CatalogHandler struct {
	logger     *zap.Logger
	banners    repository.BannerRepository
	categories repository.CategoryRepository
	events     repository.EventRepository
}

func NewCatalogHandler(logger *zap.Logger, banners repository.BannerRepository, categories repository.CategoryRepository, events repository.EventRepository) *CatalogHandler {
	return &CatalogHandler{
		logger:     logger,
		banners:    banners,
		categories: categories,
		events:     events,
	}
}

// ListBanners maneja GET /banners.
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	banners, err := h.banners.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list banners failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list banners"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

// GetBanner maneja GET /banners/:id.
func (h *CatalogHandler) GetBanner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	banner, err := h.banners.GetByID(c.Request.Context(), id)
	if err != nil {
		respondGetErr(c, h.logger, err, "banner")
		return
	}
	c.JSON(http.StatusOK, gin.H{"banner": banner})
}

// CreateBanner maneja POST /banners.
func (h *CatalogHandler) CreateBanner(c *gin.Context) {
	var req domain.Banner
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	banner, err := h.banners.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("create banner failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create banner"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"banner": banner})
}

// UpdateBanner maneja PUT /banners/:id.
func (h *CatalogHandler) UpdateBanner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req domain.Banner
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req.ID = id
	if err := h.banners.Update(c.Request.Context(), req); err != nil {
		respondGetErr(c, h.logger, err, "banner")
		return
	}
	c.JSON(http.StatusOK, gin.H{"banner": req})
}

// DeleteBanner maneja DELETE /banners/:id.
func (h *CatalogHandler) DeleteBanner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.banners.Delete(c.Request.Context(), id); err != nil {
		respondGetErr(c, h.logger, err, "banner")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories maneja GET /categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory maneja GET /categories/:id.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondGetErr(c, h.logger, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory maneja POST /categories.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req domain.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("create category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory maneja PUT /categories/:id.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req domain.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req.ID = id
	if err := h.categories.Update(c.Request.Context(), req); err != nil {
		respondGetErr(c, h.logger, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": req})
}

// DeleteCategory maneja DELETE /categories/:id.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondGetErr(c, h.logger, err, "category")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEvents maneja GET /events.
func (h *CatalogHandler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent maneja GET /events/:id.
func (h *CatalogHandler) GetEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		respondGetErr(c, h.logger, err, "event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// CreateEvent maneja POST /events.
func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	var req domain.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// UpdateEvent maneja PUT /events/:id.
func (h *CatalogHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req domain.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req.ID = id
	if err := h.events.Update(c.Request.Context(), req); err != nil {
		respondGetErr(c, h.logger, err, "event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": req})
}

// DeleteEvent maneja DELETE /events/:id.
func (h *CatalogHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		respondGetErr(c, h.logger, err, "event")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondGetErr(c *gin.Context, logger *zap.Logger, err error, entity string) {
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}
	logger.Error("catalog query failed", zap.String("entity", entity), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not access " + entity})
}
