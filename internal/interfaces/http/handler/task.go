package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptask "github.com/wms/backend/internal/application/task"
)

// TaskHandler serves the task lifecycle API. The task type is a path
// segment; the router decides whether it exists.
type TaskHandler struct {
	BaseHandler
	tasks *apptask.Service
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *apptask.Service) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("/:type", h.List)
		tasks.POST("/:type", h.Create)
		tasks.POST("/:type/:guid/take", h.Take)
		tasks.PATCH("/:type/:guid", h.ChangeProperties)
		tasks.POST("/:type/:guid/content", h.ChangeContent)
	}
}

// List returns the caller's view of tasks of one type
func (h *TaskHandler) List(c *gin.Context) {
	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity is required")
		return
	}

	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}

	views, err := h.tasks.List(c.Request.Context(), c.Param("type"), filters, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Create creates tasks from an upstream document. Re-submitting a document
// answers with the guids of the operations it already produced.
func (h *TaskHandler) Create(c *gin.Context) {
	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity is required")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Cannot read request body")
		return
	}

	guids, err := h.tasks.Create(c.Request.Context(), c.Param("type"), json.RawMessage(raw), &caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"guids": guids})
}

// Take claims a task for the caller
func (h *TaskHandler) Take(c *gin.Context) {
	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity is required")
		return
	}
	guid, err := uuid.Parse(c.Param("guid"))
	if err != nil {
		h.BadRequest(c, "Invalid task guid")
		return
	}

	status, err := h.tasks.Take(c.Request.Context(), c.Param("type"), guid, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"guid": guid, "status": status})
}

// ChangeProperties patches the mutable properties of a task
func (h *TaskHandler) ChangeProperties(c *gin.Context) {
	guid, err := uuid.Parse(c.Param("guid"))
	if err != nil {
		h.BadRequest(c, "Invalid task guid")
		return
	}

	var patch apptask.PropertiesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BadRequest(c, "Invalid properties payload")
		return
	}

	status, err := h.tasks.ChangeProperties(c.Request.Context(), c.Param("type"), guid, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"guid": guid, "status": status})
}

// ChangeContent applies a kind-specific partial content update
func (h *TaskHandler) ChangeContent(c *gin.Context) {
	guid, err := uuid.Parse(c.Param("guid"))
	if err != nil {
		h.BadRequest(c, "Invalid task guid")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Cannot read request body")
		return
	}

	answer, err := h.tasks.ChangeContent(c.Request.Context(), c.Param("type"), guid, json.RawMessage(raw))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, answer)
}
