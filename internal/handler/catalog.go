package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate/internal/model"
	"estate/internal/service"
)

// CatalogHandler handles the property listing and its admin endpoints
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles GET /api/v1/properties
func (h *CatalogHandler) List(c *gin.Context) {
	var filters model.BrowseFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.catalogService.Browse(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "Failed to list properties", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /api/v1/properties/stats
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/v1/properties/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	property, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get property", err)
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/v1/properties
func (h *CatalogHandler) Create(c *gin.Context) {
	var in model.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	property, err := h.catalogService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "Failed to create property", err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// Update handles PUT /api/v1/properties/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in model.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	property, err := h.catalogService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "Failed to update property", err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/v1/properties/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete property", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}
