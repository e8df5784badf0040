package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"go.uber.org/zap"
)

// GroupingPolicy selects how same-day operations are grouped for export
type GroupingPolicy string

const (
	GroupByLine         GroupingPolicy = "line"
	GroupByBatch        GroupingPolicy = "batch"
	GroupByLineAndBatch GroupingPolicy = "line_and_batch"
)

// ExchangeService is the export gate. A group of same-day operations becomes
// ready to unload only when every member is closed; the flip covers the whole
// group or nothing. The grouping policy is fixed at construction.
type ExchangeService struct {
	scope    TransactionScope
	grouping GroupingPolicy
	logger   *zap.Logger
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(scope TransactionScope, grouping GroupingPolicy, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		scope:    scope,
		grouping: grouping,
		logger:   logger.Named("exchange"),
	}
}

// Register implements task.ExchangeGate. It runs inside the caller's
// transaction: the "is everyone closed" check and the group flip must not be
// split across commits, or two operations closing concurrently could both
// conclude they were last.
func (s *ExchangeService) Register(ctx context.Context, repos task.CloseRepos, op *task.Operation) (bool, error) {
	dayStart, dayEnd := dayWindow(op.Date)
	line, batch := s.groupingAttributes(op)

	group, err := repos.Operations().FindExchangeGroup(ctx, op.Kind, dayStart, dayEnd, line, batch)
	if err != nil {
		return false, err
	}
	if len(group) == 0 {
		return false, nil
	}

	guids := make([]uuid.UUID, 0, len(group))
	for i := range group {
		if !group[i].IsClosed() {
			return false, nil
		}
		guids = append(guids, group[i].GUID)
	}

	if err := repos.Operations().MarkReadyToUnload(ctx, guids); err != nil {
		return false, err
	}
	op.ReadyToUnload = true

	s.logger.Info("operation group ready to unload",
		zap.String("kind", op.Kind.String()),
		zap.String("line", line),
		zap.String("batch_number", batch),
		zap.Int("operations", len(guids)))
	return true, nil
}

// RegisterToExchangeTx runs the gate for a single operation in its own
// transaction. Returns whether the operation's group was flipped.
func (s *ExchangeService) RegisterToExchangeTx(ctx context.Context, guid uuid.UUID) (bool, error) {
	var flipped bool
	err := s.scope.Execute(ctx, func(repos Repos) error {
		op, err := repos.Operations().FindByGUID(ctx, guid)
		if err != nil {
			return err
		}
		flipped, err = s.Register(ctx, repos, op)
		return err
	})
	return flipped, err
}

// ConfirmUnloading marks the named operations as exported. Confirmation is
// idempotent per operation; an unknown guid fails the whole call.
func (s *ExchangeService) ConfirmUnloading(ctx context.Context, guids []uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos Repos) error {
		for _, guid := range guids {
			op, err := repos.Operations().FindByGUID(ctx, guid)
			if err != nil {
				if err == shared.ErrNotFound {
					return shared.ErrTaskNotFound
				}
				return err
			}
			if op.Unloaded {
				continue
			}
			if err := op.MarkUnloaded(); err != nil {
				return err
			}
			if err := repos.Operations().Save(ctx, op); err != nil {
				return err
			}
		}
		return nil
	})
}

// groupingAttributes returns the attributes candidates must match under the
// configured policy. An empty attribute means "do not group by it".
func (s *ExchangeService) groupingAttributes(op *task.Operation) (line, batch string) {
	switch s.grouping {
	case GroupByLine:
		return op.Line, ""
	case GroupByBatch:
		return "", op.BatchNumber
	default:
		return op.Line, op.BatchNumber
	}
}

// dayWindow returns the local calendar-day bounds around t
func dayWindow(t time.Time) (time.Time, time.Time) {
	local := t.Local()
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.Add(24 * time.Hour)
}
