package task

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Synthetic list filters. not_closed hides finished work, only_close shows
// nothing else. When neither is given the default visibility rule applies:
// a caller sees their own tasks plus unclaimed NEW ones.
const (
	FilterNotClosed = "not_closed"
	FilterOnlyClose = "only_close"
)

// Service is the task lifecycle engine: every generic list/create/take/change
// call runs through the router's behavior bundle for the task type.
type Service struct {
	router *Router
	scope  wh.TransactionScope
	closer *task.Closer
	logger *zap.Logger
}

// NewService creates a new task lifecycle service
func NewService(router *Router, scope wh.TransactionScope, closer *task.Closer, logger *zap.Logger) *Service {
	return &Service{
		router: router,
		scope:  scope,
		closer: closer,
		logger: logger.Named("task"),
	}
}

// Resolve exposes router resolution to the transport layer
func (s *Service) Resolve(key string) (Entry, error) {
	return s.router.Resolve(key)
}

// List returns the caller's view of tasks of one type. Unknown filter keys
// fail the call rather than silently matching everything.
func (s *Service) List(ctx context.Context, key string, filters map[string]string, caller uuid.UUID) ([]TaskView, error) {
	entry, err := s.router.Resolve(key)
	if err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(entry, filters, caller)
	if err != nil {
		return nil, err
	}

	var views []TaskView
	err = s.scope.Execute(ctx, func(repos wh.Repos) error {
		ops, err := repos.Operations().List(ctx, entry.Kind, filter)
		if err != nil {
			return err
		}
		views = make([]TaskView, 0, len(ops))
		for i := range ops {
			views = append(views, entry.ReadShape(&ops[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *Service) buildFilter(entry Entry, filters map[string]string, caller uuid.UUID) (shared.Filter, error) {
	filter := shared.DefaultFilter()

	allowed := make(map[string]bool, len(entry.Filters))
	for _, name := range entry.Filters {
		allowed[name] = true
	}

	synthetic := false
	for key, value := range filters {
		switch key {
		case FilterNotClosed, FilterOnlyClose:
			synthetic = true
			filter.Filters[key] = value == "true" || value == "1"
		default:
			if !allowed[key] {
				return shared.Filter{}, shared.ErrInvalidFilter
			}
			filter.Filters[key] = value
		}
	}

	if !synthetic {
		filter.Filters["visible_to"] = caller
	}
	return filter, nil
}

// Create validates the payload and runs the type's create function in one
// transaction. Creation is idempotent per upstream document: re-submitting a
// payload whose external key already has an operation returns its guid.
func (s *Service) Create(ctx context.Context, key string, raw json.RawMessage, caller *uuid.UUID) ([]uuid.UUID, error) {
	entry, err := s.router.Resolve(key)
	if err != nil {
		return nil, err
	}
	payload, err := decodeCreate(raw)
	if err != nil {
		return nil, err
	}
	if entry.Validate != nil {
		if err := entry.Validate(payload); err != nil {
			return nil, err
		}
	}

	var guids []uuid.UUID
	err = s.scope.Execute(ctx, func(repos wh.Repos) error {
		guids, err = entry.Create(ctx, repos, payload, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tasks created", zap.String("type", key), zap.Int("count", len(guids)))
	return guids, nil
}

// Take claims a task for the caller and moves it NEW->WORK. Task types with
// a composite take run their sub-step first; if the sub-step fails the take
// is rejected and nothing is committed.
func (s *Service) Take(ctx context.Context, key string, guid uuid.UUID, caller uuid.UUID) (task.Status, error) {
	entry, err := s.router.Resolve(key)
	if err != nil {
		return "", err
	}

	var status task.Status
	err = s.scope.Execute(ctx, func(repos wh.Repos) error {
		op, err := s.findTask(ctx, repos, entry.Kind, guid)
		if err != nil {
			return err
		}
		if op.Status == task.StatusWork {
			return shared.ErrAlreadyInProgress
		}
		if entry.BeforeTake != nil {
			if err := entry.BeforeTake(ctx, repos, op, caller); err != nil {
				return err
			}
		}
		if err := op.Take(caller); err != nil {
			return err
		}
		if err := repos.Operations().Save(ctx, op); err != nil {
			return err
		}
		status = op.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// ChangeProperties applies a partial status/unloaded patch. Patching status
// to CLOSE runs the full close sequence with its cascades.
func (s *Service) ChangeProperties(ctx context.Context, key string, guid uuid.UUID, patch PropertiesPatch) (task.Status, error) {
	entry, err := s.router.Resolve(key)
	if err != nil {
		return "", err
	}

	var status task.Status
	err = s.scope.Execute(ctx, func(repos wh.Repos) error {
		op, err := s.findTask(ctx, repos, entry.Kind, guid)
		if err != nil {
			return err
		}
		if err := s.applyPatch(ctx, repos, op, &patch); err != nil {
			return err
		}
		status = op.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// applyPatch patches only the fields present in the patch; absent fields are
// never reset
func (s *Service) applyPatch(ctx context.Context, repos wh.Repos, op *task.Operation, patch *PropertiesPatch) error {
	if patch.Status != nil {
		if *patch.Status == task.StatusClose {
			if err := s.closer.Close(ctx, repos, op); err != nil {
				return err
			}
		} else {
			op.Status = *patch.Status
			op.Touch()
			if err := repos.Operations().Save(ctx, op); err != nil {
				return err
			}
		}
	}
	if patch.Unloaded != nil && *patch.Unloaded {
		if err := op.MarkUnloaded(); err != nil {
			return err
		}
		if err := repos.Operations().Save(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// ChangeContent decodes the type's content shape, applies the optional
// properties sub-patch, then dispatches the type's content mutation. The
// mutation's answer map is returned as-is.
func (s *Service) ChangeContent(ctx context.Context, key string, guid uuid.UUID, raw json.RawMessage) (map[string]any, error) {
	entry, err := s.router.Resolve(key)
	if err != nil {
		return nil, err
	}
	if entry.MutateContent == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Task type does not support content changes")
	}

	shape := entry.ContentShape
	if shape == nil {
		shape = decodeContent
	}
	payload, err := shape(raw)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	err = s.scope.Execute(ctx, func(repos wh.Repos) error {
		op, err := s.findTask(ctx, repos, entry.Kind, guid)
		if err != nil {
			return err
		}
		if payload.Properties != nil {
			if err := s.applyPatch(ctx, repos, op, payload.Properties); err != nil {
				return err
			}
		}
		result, err = entry.MutateContent(ctx, repos, op, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) findTask(ctx context.Context, repos wh.Repos, kind task.Kind, guid uuid.UUID) (*task.Operation, error) {
	op, err := repos.Operations().FindByGUIDAndKind(ctx, guid, kind)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrTaskNotFound
		}
		return nil, err
	}
	return op, nil
}
