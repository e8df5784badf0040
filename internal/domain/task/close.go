package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// CloseRepos is the repository surface close strategies run against. All
// repositories share one transaction: the sibling check and the parent close
// must not be split across commits.
type CloseRepos interface {
	Operations() OperationRepository
	Content() ContentRepository
	Pallets() warehouse.PalletRepository
	CellStates() warehouse.CellStateRepository
	// CellNeedsTaskFilter reports whether placement into the cell must be
	// filtered against the task the pallet was selected for
	CellNeedsTaskFilter(ctx context.Context, cellID uuid.UUID) (bool, error)
}

// ExchangeGate decides when a closed operation's group becomes eligible for
// export. Register returns true when the whole group was flipped.
type ExchangeGate interface {
	Register(ctx context.Context, repos CloseRepos, op *Operation) (bool, error)
}

// BeforeCloseHook runs before an operation is marked closed
type BeforeCloseHook func(ctx context.Context, repos CloseRepos, op *Operation) error

// AfterCloseHook runs after an operation is marked closed and saved
type AfterCloseHook func(ctx context.Context, repos CloseRepos, op *Operation, closer *Closer) error

// Closer closes operations and runs the kind-specific side effects around the
// state change. Hooks run synchronously, in registration order.
type Closer struct {
	before map[Kind][]BeforeCloseHook
	after  map[Kind][]AfterCloseHook
	gate   ExchangeGate
	gated  map[Kind]bool
}

// NewCloser builds a closer with the default hook set
func NewCloser(gate ExchangeGate) *Closer {
	c := &Closer{
		before: make(map[Kind][]BeforeCloseHook),
		after:  make(map[Kind][]AfterCloseHook),
		gate:   gate,
		gated:  map[Kind]bool{KindMarking: true},
	}
	c.Before(KindPlacementToCells, recordPlacementCellStates)
	c.After(KindPalletCollect, cascadeCollectParent)
	c.After(KindSelection, stampSelectionTaskKeys)
	return c
}

// Before registers a before-close hook for a kind
func (c *Closer) Before(kind Kind, hook BeforeCloseHook) {
	c.before[kind] = append(c.before[kind], hook)
}

// After registers an after-close hook for a kind
func (c *Closer) After(kind Kind, hook AfterCloseHook) {
	c.after[kind] = append(c.after[kind], hook)
}

// Close runs the full close sequence for an operation: before-close hooks,
// the state change itself, export-eligibility, then after-close hooks.
// Operations of a gated kind go through the exchange gate; everything else
// becomes ready to unload the moment it closes.
func (c *Closer) Close(ctx context.Context, repos CloseRepos, op *Operation) error {
	if op.IsClosed() {
		return nil
	}

	for _, hook := range c.before[op.Kind] {
		if err := hook(ctx, repos, op); err != nil {
			return err
		}
	}

	op.Close()

	if c.gated[op.Kind] && c.gate != nil {
		if err := repos.Operations().Save(ctx, op); err != nil {
			return err
		}
		if _, err := c.gate.Register(ctx, repos, op); err != nil {
			return err
		}
	} else {
		if err := op.MarkReadyToUnload(); err != nil {
			return err
		}
		if err := repos.Operations().Save(ctx, op); err != nil {
			return err
		}
	}

	for _, hook := range c.after[op.Kind] {
		if err := hook(ctx, repos, op, c); err != nil {
			return err
		}
	}
	return nil
}

// recordPlacementCellStates writes a PLACED occupancy event for every cell
// row of a placement operation at its resolved cell.
func recordPlacementCellStates(ctx context.Context, repos CloseRepos, op *Operation) error {
	cells, err := repos.Content().CellsOf(ctx, op.GUID)
	if err != nil {
		return err
	}
	for i := range cells {
		cellID := cells[i].ResolvedCell()
		if cellID == nil || cells[i].PalletGUID == nil {
			continue
		}
		state := warehouse.NewCellState(*cellID, *cells[i].PalletGUID, warehouse.CellStatePlaced)
		if err := repos.CellStates().Append(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// cascadeCollectParent closes the parent task of a pallet-collect operation
// once the last open sibling is gone. Collect reasons without a mapped parent
// kind never cascade; a missing parent is nothing to cascade, not a fault.
func cascadeCollectParent(ctx context.Context, repos CloseRepos, op *Operation, closer *Closer) error {
	if op.ParentTaskID == nil {
		return nil
	}
	parentKind, ok := op.CollectKind.ParentKind()
	if !ok {
		return nil
	}

	open, err := repos.Operations().FindOpenChildren(ctx, *op.ParentTaskID)
	if err != nil {
		return err
	}
	for i := range open {
		if open[i].GUID != op.GUID {
			return nil // a sibling is still open
		}
	}

	parent, err := repos.Operations().FindByGUIDAndKind(ctx, *op.ParentTaskID, parentKind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return closer.Close(ctx, repos, parent)
}

// stampSelectionTaskKeys copies the selection's external source key onto every
// pallet headed to a cell that requires task-filtered placement.
func stampSelectionTaskKeys(ctx context.Context, repos CloseRepos, op *Operation, _ *Closer) error {
	if op.ExternalSource == nil {
		return nil
	}
	cells, err := repos.Content().CellsOf(ctx, op.GUID)
	if err != nil {
		return err
	}
	for i := range cells {
		if cells[i].DestinationCellID == nil || cells[i].PalletGUID == nil {
			continue
		}
		needs, err := repos.CellNeedsTaskFilter(ctx, *cells[i].DestinationCellID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		if !needs {
			continue
		}
		pallet, err := repos.Pallets().FindByGUID(ctx, *cells[i].PalletGUID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		pallet.ExternalTaskKey = op.ExternalSource.ExternalKey
		if err := repos.Pallets().Save(ctx, pallet); err != nil {
			return err
		}
	}
	return nil
}
