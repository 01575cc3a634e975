// README: Quote and pricing-config handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/pricing"
	"courier/internal/types"
)

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(svc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

type quoteReq struct {
	Agent    *types.Point `json:"agent" binding:"required"`
	Pickup   *types.Point `json:"pickup" binding:"required"`
	Delivery *types.Point `json:"delivery" binding:"required"`
}

// Create always answers with a price for valid input; a routing outage shows
// up as estimate.error_reason next to the minimum price.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "agent, pickup and delivery are required")
		return
	}
	q, err := h.pricing.QuoteDelivery(c.Request.Context(), *req.Agent, *req.Pickup, *req.Delivery)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

func (h *QuoteHandler) GetConfig(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.pricing.Config())
}

func (h *QuoteHandler) UpdateConfig(c *gin.Context) {
	var patch pricing.ConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cfg, err := h.pricing.UpdateConfig(c.Request.Context(), patch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}
