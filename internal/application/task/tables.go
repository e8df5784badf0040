package task

import (
	"github.com/wms/backend/internal/domain/task"
	"github.com/wms/backend/internal/domain/warehouse"
)

// documentFilters are the list filters shared by all document kinds
var documentFilters = []string{"status", "number", "line", "batch_number"}

// baseTable is the first API generation: every task kind with its create,
// validate and content behavior.
func baseTable(b *builder) Table {
	return Table{
		task.KindMarking.String(): {
			Kind:          task.KindMarking,
			Create:        b.createFor(task.KindMarking),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentMarking,
			Filters:       documentFilters,
		},
		task.KindAcceptanceToStock.String(): {
			Kind:      task.KindAcceptanceToStock,
			Create:    b.createFor(task.KindAcceptanceToStock),
			Validate:  validateAcceptance,
			ReadShape: ToTaskView,
			Filters:   documentFilters,
		},
		task.KindPalletCollect.String(): {
			Kind:          task.KindPalletCollect,
			Create:        b.createFor(task.KindPalletCollect),
			Validate:      validateCollect,
			ReadShape:     ToTaskView,
			MutateContent: b.contentCollect,
			Filters:       append([]string{"type_collect", "parent_task"}, documentFilters...),
		},
		task.KindPlacementToCells.String(): {
			Kind:          task.KindPlacementToCells,
			Create:        b.createFor(task.KindPlacementToCells),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentPlacement,
			Filters:       documentFilters,
		},
		task.KindMovementBetweenCells.String(): {
			Kind:          task.KindMovementBetweenCells,
			Create:        b.createFor(task.KindMovementBetweenCells),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentPlacement,
			Filters:       documentFilters,
		},
		task.KindMovementBetweenPallets.String(): {
			Kind:          task.KindMovementBetweenPallets,
			Create:        b.createFor(task.KindMovementBetweenPallets),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentCollect,
			Filters:       documentFilters,
		},
		task.KindShipment.String(): {
			Kind:          task.KindShipment,
			Create:        b.createFor(task.KindShipment),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentShipment,
			BeforeTake:    b.takeClaimPallets(warehouse.PalletStatusForShipment),
			Filters:       append([]string{"direction"}, documentFilters...),
		},
		task.KindSelection.String(): {
			Kind:          task.KindSelection,
			Create:        b.createFor(task.KindSelection),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentSelection,
			BeforeTake:    b.takeClaimPallets(warehouse.PalletStatusSelected),
			Filters:       documentFilters,
		},
		task.KindOrder.String(): {
			Kind:      task.KindOrder,
			Create:    b.createFor(task.KindOrder),
			Validate:  validateOrder,
			ReadShape: ToTaskView,
			Filters:   append([]string{"client"}, documentFilters...),
		},
		task.KindInventory.String(): {
			Kind:          task.KindInventory,
			Create:        b.createFor(task.KindInventory),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentInventory,
			Filters:       documentFilters,
		},
		task.KindRepacking.String(): {
			Kind:          task.KindRepacking,
			Create:        b.createFor(task.KindRepacking),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentCollect,
			BeforeTake:    b.takeClaimPallets(warehouse.PalletStatusForRepacking),
			Filters:       documentFilters,
		},
		task.KindArrivalAtStock.String(): {
			Kind:      task.KindArrivalAtStock,
			Create:    b.createFor(task.KindArrivalAtStock),
			Validate:  validateAcceptance,
			ReadShape: ToTaskView,
			Filters:   documentFilters,
		},
		task.KindWriteOff.String(): {
			Kind:          task.KindWriteOff,
			Create:        b.createFor(task.KindWriteOff),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentWriteOff,
			Filters:       documentFilters,
		},
		task.KindCancelShipment.String(): {
			Kind:      task.KindCancelShipment,
			Create:    b.createFor(task.KindCancelShipment),
			Validate:  requireExternalKey,
			ReadShape: ToTaskView,
			Filters:   documentFilters,
		},
		task.KindMovementWithShipment.String(): {
			Kind:          task.KindMovementWithShipment,
			Create:        b.createFor(task.KindMovementWithShipment),
			Validate:      requireExternalKey,
			ReadShape:     ToTaskView,
			MutateContent: b.contentShipment,
			BeforeTake:    b.takeClaimPallets(warehouse.PalletStatusPreForShipment),
			Filters:       append([]string{"direction"}, documentFilters...),
		},
	}
}

// NewDefaultRouter assembles the production router from the generation
// tables
func NewDefaultRouter(deps Deps) *Router {
	b := &builder{pallets: deps.Pallets, logger: deps.Logger}
	return NewRouter(baseTable(b))
}
