package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate/internal/model"
	"estate/internal/service"
)

// NewsletterHandler handles newsletter signups
type NewsletterHandler struct {
	newsletterService *service.NewsletterService
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe handles POST /api/v1/newsletter
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req model.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	receipt, err := h.newsletterService.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to subscribe", err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
