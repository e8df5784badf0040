package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// PalletProduct is a line item inside a pallet describing ordered or expected
// product content. IsCollected flips once the sourced quantity for its
// external key reaches the required count.
type PalletProduct struct {
	shared.BaseEntity
	PalletGUID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID `gorm:"type:uuid;index"`
	Count         int        `gorm:"not null;default:0"`
	BatchNumber   string     `gorm:"type:varchar(64)"`
	ExternalKey   string     `gorm:"type:varchar(64);index"` // order line key
	IsCollected   bool       `gorm:"not null;default:false"`
	HasDivergence bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PalletProduct) TableName() string {
	return "pallet_products"
}

// CellState is a cell occupancy event
type CellState string

const (
	CellStatePlaced  CellState = "PLACED"
	CellStateRemoved CellState = "REMOVED"
)

// StorageCellContentState is one row of the append-only cell occupancy
// ledger. "What pallet is in which cell" is the latest row per cell.
type StorageCellContentState struct {
	shared.BaseEntity
	CellID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PalletGUID uuid.UUID `gorm:"type:uuid;not null;index"`
	State      CellState `gorm:"type:varchar(8);not null"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StorageCellContentState) TableName() string {
	return "storage_cell_content_states"
}

// NewCellState records an occupancy event for a cell
func NewCellState(cellID, palletGUID uuid.UUID, state CellState) *StorageCellContentState {
	return &StorageCellContentState{
		BaseEntity: shared.NewBaseEntity(),
		CellID:     cellID,
		PalletGUID: palletGUID,
		State:      state,
		RecordedAt: time.Now(),
	}
}

// AggregationCode is a scan-derived code linking a physical unit to a pallet.
// A code attaches to at most one pallet, ever.
type AggregationCode struct {
	shared.BaseEntity
	PalletGUID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code       string    `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AggregationCode) TableName() string {
	return "aggregation_codes"
}
