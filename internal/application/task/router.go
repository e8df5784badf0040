package task

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
)

// CreateFunc creates the operations for one validated payload and returns
// their guids
type CreateFunc func(ctx context.Context, repos wh.Repos, payload *CreatePayload, caller *uuid.UUID) ([]uuid.UUID, error)

// ContentFunc applies a kind-specific partial content update and returns the
// answer map sent back to the caller
type ContentFunc func(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error)

// TakeFunc runs a kind-specific sub-step before a take is accepted
type TakeFunc func(ctx context.Context, repos wh.Repos, op *task.Operation, caller uuid.UUID) error

// ReadShapeFunc shapes an operation for list/read responses
type ReadShapeFunc func(op *task.Operation) TaskView

// Entry is the immutable behavior bundle resolved for a task-type key
type Entry struct {
	Kind          task.Kind
	Create        CreateFunc
	Validate      func(payload *CreatePayload) error
	ReadShape     ReadShapeFunc
	ContentShape  func(raw json.RawMessage) (*ContentPayload, error)
	MutateContent ContentFunc
	BeforeTake    TakeFunc
	// Filters lists the operation fields a list call may filter on, in
	// addition to the synthetic not_closed/only_close keys
	Filters []string
}

// Table maps task-type keys to their behavior bundles. One table exists per
// API generation.
type Table map[string]Entry

// Router resolves task-type keys. Later tables win on key collision, which
// models additive API versioning: a new generation overrides or extends the
// previous one without duplicating its entries.
type Router struct {
	entries Table
}

// NewRouter unions the given generation tables into one router
func NewRouter(tables ...Table) *Router {
	entries := make(Table)
	for _, table := range tables {
		for key, entry := range table {
			entries[key] = entry
		}
	}
	return &Router{entries: entries}
}

// Resolve returns the behavior bundle for a task-type key
func (r *Router) Resolve(key string) (Entry, error) {
	entry, ok := r.entries[key]
	if !ok {
		return Entry{}, shared.ErrTaskTypeNotFound
	}
	return entry, nil
}

// Keys returns every registered task-type key
func (r *Router) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	return keys
}
