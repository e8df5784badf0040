package handler

import (
	"github.com/gin-gonic/gin"
	appwh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/task"
)

// PalletHandler serves direct pallet operations
type PalletHandler struct {
	BaseHandler
	pallets *appwh.PalletService
}

// NewPalletHandler creates a new PalletHandler
func NewPalletHandler(pallets *appwh.PalletService) *PalletHandler {
	return &PalletHandler{pallets: pallets}
}

// RegisterRoutes registers pallet routes
func (h *PalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pallets := rg.Group("/pallets")
	{
		pallets.POST("", h.Create)
		pallets.POST("/:code/divide", h.Divide)
	}
}

// CreatePalletsRequest is the batch pallet registration payload
type CreatePalletsRequest struct {
	Pallets []appwh.PalletItem `json:"pallets" binding:"required,min=1"`
}

// DivideRequest splits part of a pallet onto a new one. TaskType names the
// operation context the divide happens in; it decides the follow-up effects.
type DivideRequest struct {
	appwh.DivideSpec
	TaskType string `json:"task_type" binding:"required,taskkind"`
}

// Create registers pallets, updating ones already known by code or key
func (h *PalletHandler) Create(c *gin.Context) {
	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity is required")
		return
	}

	var req CreatePalletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid pallets payload: "+err.Error())
		return
	}

	views, err := h.pallets.CreatePalletsTx(c.Request.Context(), req.Pallets, &caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, views)
}

// Divide splits boxes off a source pallet onto a new pallet
func (h *PalletHandler) Divide(c *gin.Context) {
	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity is required")
		return
	}

	var req DivideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid divide payload: "+err.Error())
		return
	}

	views, err := h.pallets.DividePalletTx(c.Request.Context(), c.Param("code"), req.DivideSpec, caller, task.Kind(req.TaskType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}
