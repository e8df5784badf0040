package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// PalletStatus represents where a pallet is in its physical lifecycle
type PalletStatus string

const (
	PalletStatusNew            PalletStatus = "NEW"
	PalletStatusCollected      PalletStatus = "COLLECTED"
	PalletStatusConfirmed      PalletStatus = "CONFIRMED"
	PalletStatusPosted         PalletStatus = "POSTED"
	PalletStatusShipped        PalletStatus = "SHIPPED"
	PalletStatusArchived       PalletStatus = "ARCHIVED"
	PalletStatusWaited         PalletStatus = "WAITED"
	PalletStatusForShipment    PalletStatus = "FOR_SHIPMENT"
	PalletStatusSelected       PalletStatus = "SELECTED"
	PalletStatusPlaced         PalletStatus = "PLACED"
	PalletStatusForRepacking   PalletStatus = "FOR_REPACKING"
	PalletStatusForPlaced      PalletStatus = "FOR_PLACED"
	PalletStatusPreForShipment PalletStatus = "PRE_FOR_SHIPMENT"
)

// PalletType classifies how a pallet was assembled
type PalletType string

const (
	PalletTypeShipped   PalletType = "SHIPPED"
	PalletTypeFulled    PalletType = "FULLED"
	PalletTypeCombined  PalletType = "COMBINED"
	PalletTypeRepacking PalletType = "REPACKING"
)

// Pallet represents a physical collection unit. ContentCount and Weight are
// the remaining quantity; the PalletSource ledger, not these fields, is the
// source of truth for where withdrawn boxes went.
type Pallet struct {
	shared.BaseEntity
	Code            string          `gorm:"type:varchar(64);uniqueIndex"` // external human code
	ExternalKey     string          `gorm:"type:varchar(64);index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"` // nil for mixed-content pallets
	Status          PalletStatus    `gorm:"type:varchar(20);not null;default:'NEW'"`
	Weight          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ContentCount    int             `gorm:"not null;default:0"`
	BatchNumber     string          `gorm:"type:varchar(64);index"`
	ProductionDate  *time.Time      `gorm:""`
	PalletType      PalletType      `gorm:"type:varchar(16);not null;default:'FULLED'"`
	Series          string          `gorm:"type:varchar(64)"`
	ShiftID         *uuid.UUID      `gorm:"type:uuid"`
	ProductionShopID *uuid.UUID     `gorm:"type:uuid"`
	CellID          *uuid.UUID      `gorm:"type:uuid;index"`
	// ExternalTaskKey is stamped by a selection close so a later placement
	// knows which task this pallet must be filtered against.
	ExternalTaskKey string `gorm:"type:varchar(64);index"`
	// CollectTaskID is the pallet-collect operation that originally assembled
	// this pallet. A divide during acceptance parents its new operation here.
	CollectTaskID *uuid.UUID `gorm:"type:uuid;index"`

	Products []PalletProduct `gorm:"foreignKey:PalletGUID;references:GUID"`
}

// TableName returns the table name for GORM
func (Pallet) TableName() string {
	return "pallets"
}

// NewPallet creates a pallet in status NEW
func NewPallet(code string) *Pallet {
	return &Pallet{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Status:     PalletStatusNew,
		Weight:     decimal.Zero,
		PalletType: PalletTypeFulled,
	}
}

// Withdraw removes count boxes and weight from the pallet. Weight is only
// decremented when both the pallet and the withdrawal carry a nonzero weight,
// so zero-weight "by count" pallets are never corrupted. When the pallet runs
// out (or would go negative) both fields clamp to zero and it is archived.
func (p *Pallet) Withdraw(count int, weight decimal.Decimal) error {
	if count < 0 || weight.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Withdrawal quantities cannot be negative")
	}
	if count > p.ContentCount {
		return shared.ErrInsufficientQuantity
	}

	p.ContentCount -= count
	if !p.Weight.IsZero() && !weight.IsZero() {
		p.Weight = p.Weight.Sub(weight)
	}

	if p.ContentCount <= 0 || p.Weight.IsNegative() {
		p.Archive()
	}
	p.Touch()
	return nil
}

// Archive clamps the remaining quantity to zero and retires the pallet
func (p *Pallet) Archive() {
	p.ContentCount = 0
	p.Weight = decimal.Zero
	p.Status = PalletStatusArchived
	p.Touch()
}

// IsArchived reports whether the pallet has been retired
func (p *Pallet) IsArchived() bool {
	return p.Status == PalletStatusArchived
}

// IsEmpty reports whether the pallet has no remaining content
func (p *Pallet) IsEmpty() bool {
	return p.ContentCount <= 0
}
