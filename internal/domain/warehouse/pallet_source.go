package warehouse

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// SourceType is the reason a quantity left a source pallet
type SourceType string

const (
	SourceTypeCollect   SourceType = "COLLECT"
	SourceTypeSelection SourceType = "SELECTION"
	SourceTypeInventory SourceType = "INVENTORY"
	SourceTypeWriteOff  SourceType = "WRITE_OFF"
	SourceTypeDivide    SourceType = "DIVIDE"
	SourceTypeRepacking SourceType = "REPACKING"
)

// PalletSource is one ledger row recording a quantity withdrawn from a source
// pallet. The ledger is append-only: every withdrawal writes exactly one row,
// and "how many boxes came from where" is answered here, never reconstructed
// from the pallet's current fields.
type PalletSource struct {
	shared.BaseEntity
	PalletGUID      uuid.UUID       `gorm:"type:uuid;not null;index"` // source pallet
	DestinationGUID *uuid.UUID      `gorm:"type:uuid;index"`          // receiving pallet, if any
	Count           int             `gorm:"not null"`
	Weight          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TypeCollect     SourceType      `gorm:"type:varchar(16);not null"`
	RelatedTaskID   *uuid.UUID      `gorm:"type:uuid;index"`
	UserID          *uuid.UUID      `gorm:"type:uuid"`
	ExternalKey     string          `gorm:"type:varchar(64);index"` // order line key, for aggregation
}

// TableName returns the table name for GORM
func (PalletSource) TableName() string {
	return "pallet_sources"
}

// NewPalletSource creates a ledger row for a withdrawal
func NewPalletSource(sourceGUID uuid.UUID, count int, weight decimal.Decimal, reason SourceType) *PalletSource {
	return &PalletSource{
		BaseEntity:  shared.NewBaseEntity(),
		PalletGUID:  sourceGUID,
		Count:       count,
		Weight:      weight,
		TypeCollect: reason,
	}
}
