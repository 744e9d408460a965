package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate/internal/model"
	"estate/internal/service"
)

// ValuationHandler serves the valuation and mortgage calculators
type ValuationHandler struct {
	valuationService *service.ValuationService
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(valuationService *service.ValuationService) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

// Estimate handles POST /api/v1/valuations
func (h *ValuationHandler) Estimate(c *gin.Context) {
	var req model.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	valuation, err := h.valuationService.Estimate(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Valuation failed", err)
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// Mortgage handles POST /api/v1/mortgage
func (h *ValuationHandler) Mortgage(c *gin.Context) {
	var req model.MortgageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quote, err := service.CalculateMortgage(req)
	if err != nil {
		respondError(c, "Mortgage calculation failed", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
