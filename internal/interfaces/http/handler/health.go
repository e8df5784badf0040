package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wms/backend/internal/infrastructure/persistence"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers health routes on the root group
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/healthz", h.Healthz)
	rg.GET("/readyz", h.Readyz)
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports whether the database is reachable
func (h *HealthHandler) Readyz(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
