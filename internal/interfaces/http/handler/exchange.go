package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appwh "github.com/wms/backend/internal/application/warehouse"
)

// ExchangeHandler serves the export gate: re-running the batch check for a
// task and confirming that exported tasks were consumed downstream.
type ExchangeHandler struct {
	BaseHandler
	exchange *appwh.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler
func NewExchangeHandler(exchange *appwh.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchange: exchange}
}

// RegisterRoutes registers exchange routes
func (h *ExchangeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exchange := rg.Group("/exchange")
	{
		exchange.POST("/register", h.Register)
		exchange.POST("/confirm", h.Confirm)
	}
}

// RegisterRequest re-runs the export-batch check for one task
type RegisterRequest struct {
	GUID uuid.UUID `json:"guid" binding:"required"`
}

// ConfirmRequest marks exported tasks as consumed downstream
type ConfirmRequest struct {
	GUIDs []uuid.UUID `json:"guids" binding:"required,min=1"`
}

// Register re-evaluates export eligibility for the task's batch group
func (h *ExchangeHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid register payload")
		return
	}

	flipped, err := h.exchange.RegisterToExchangeTx(c.Request.Context(), req.GUID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"guid": req.GUID, "ready_to_unload": flipped})
}

// Confirm marks the listed tasks as unloaded
func (h *ExchangeHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid confirm payload")
		return
	}

	if err := h.exchange.ConfirmUnloading(c.Request.Context(), req.GUIDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"confirmed": len(req.GUIDs)})
}
