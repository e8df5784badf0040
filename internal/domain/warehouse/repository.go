package warehouse

import (
	"context"

	"github.com/google/uuid"
)

// PalletRepository provides access to pallets
type PalletRepository interface {
	FindByGUID(ctx context.Context, guid uuid.UUID) (*Pallet, error)
	FindByCode(ctx context.Context, code string) (*Pallet, error)
	FindByExternalKey(ctx context.Context, externalKey string) (*Pallet, error)
	// FindByCodeForUpdate locks the pallet row for the rest of the
	// transaction so concurrent withdrawals cannot over-draw it.
	FindByCodeForUpdate(ctx context.Context, code string) (*Pallet, error)
	FindByGUIDForUpdate(ctx context.Context, guid uuid.UUID) (*Pallet, error)
	Create(ctx context.Context, pallet *Pallet) error
	Save(ctx context.Context, pallet *Pallet) error
}

// PalletSourceRepository is the append-only withdrawal ledger
type PalletSourceRepository interface {
	Append(ctx context.Context, row *PalletSource) error
	FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]PalletSource, error)
	// SumCountByExternalKeys sums the ledger counts grouped by order line key
	SumCountByExternalKeys(ctx context.Context, externalKeys []string) (map[string]int, error)
}

// PalletProductRepository provides access to pallet product lines
type PalletProductRepository interface {
	FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]PalletProduct, error)
	FindByExternalKeys(ctx context.Context, externalKeys []string) ([]PalletProduct, error)
	Save(ctx context.Context, line *PalletProduct) error
}

// CellStateRepository is the append-only cell occupancy ledger
type CellStateRepository interface {
	Append(ctx context.Context, state *StorageCellContentState) error
	// CurrentPallet returns the pallet occupying a cell according to the
	// latest recorded state, or nil when the cell is empty.
	CurrentPallet(ctx context.Context, cellID uuid.UUID) (*uuid.UUID, error)
}

// AggregationCodeRepository provides access to scan codes
type AggregationCodeRepository interface {
	// Attach links a code to a pallet unless the code is already attached to
	// any pallet; returns whether a row was written.
	Attach(ctx context.Context, palletGUID uuid.UUID, code string) (bool, error)
	FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]AggregationCode, error)
}
