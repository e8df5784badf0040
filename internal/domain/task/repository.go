package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// OperationRepository provides access to operations of every kind
type OperationRepository interface {
	FindByGUID(ctx context.Context, guid uuid.UUID) (*Operation, error)
	FindByGUIDAndKind(ctx context.Context, guid uuid.UUID, kind Kind) (*Operation, error)
	// FindByExternalKey finds an operation of the given kind created from the
	// upstream document with that external key. Used for idempotent creates.
	FindByExternalKey(ctx context.Context, kind Kind, externalKey string) (*Operation, error)
	List(ctx context.Context, kind Kind, filter shared.Filter) ([]Operation, error)
	Create(ctx context.Context, op *Operation) error
	Save(ctx context.Context, op *Operation) error
	// NextNumber allocates the next value of the per-kind document sequence
	NextNumber(ctx context.Context, kind Kind) (int64, error)
	// FindOpenChildren returns the not-yet-closed children of a parent task
	FindOpenChildren(ctx context.Context, parentGUID uuid.UUID) ([]Operation, error)
	// FindExchangeGroup returns the not-unloaded, not-ready operations of the
	// given kind inside the [dayStart, dayEnd) window matching the grouping
	// attributes. Empty line/batch means "do not group by that attribute".
	FindExchangeGroup(ctx context.Context, kind Kind, dayStart, dayEnd time.Time, line, batchNumber string) ([]Operation, error)
	// MarkReadyToUnload flips ready_to_unload on every listed operation
	MarkReadyToUnload(ctx context.Context, guids []uuid.UUID) error
}

// ExternalSourceRepository resolves and registers upstream document references
type ExternalSourceRepository interface {
	FindByKey(ctx context.Context, externalKey string) (*ExternalSource, error)
	// GetOrCreate returns the existing reference for the key or persists a new
	// one. The external key is unique; concurrent creates converge on one row.
	GetOrCreate(ctx context.Context, name, externalKey, number string, date time.Time) (*ExternalSource, error)
}

// ContentRepository provides access to the operation content join rows
type ContentRepository interface {
	PalletsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationPallet, error)
	ProductsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationProduct, error)
	CellsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationCell, error)
	SavePallet(ctx context.Context, row *OperationPallet) error
	SaveProduct(ctx context.Context, row *OperationProduct) error
	SaveCell(ctx context.Context, row *OperationCell) error
	// FindProductsByExternalKeys finds product rows across operations by
	// their order line keys (used by the order aggregation check)
	FindProductsByExternalKeys(ctx context.Context, externalKeys []string) ([]OperationProduct, error)
	// FindPalletLink finds the operation-pallet row of a given operation for a
	// given pallet (used when a divide rewires the dependent pallet)
	FindPalletLink(ctx context.Context, operationGUID, palletGUID uuid.UUID) (*OperationPallet, error)
}
