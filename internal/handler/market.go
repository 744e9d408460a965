package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate/internal/service"
)

// MarketHandler serves recommendations and market analysis
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Recommendations handles GET /api/v1/recommendations
func (h *MarketHandler) Recommendations(c *gin.Context) {
	recs, err := h.marketService.Recommendations(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// Analysis handles GET /api/v1/market?location=&type=
func (h *MarketHandler) Analysis(c *gin.Context) {
	c.JSON(http.StatusOK, h.marketService.Analysis(c.Query("location"), c.Query("type")))
}
