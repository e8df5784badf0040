package task

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// ContentMeta is the denormalized operation snapshot every content row
// carries. It is filled exactly once when the row is attached to an
// operation and never updated afterwards.
type ContentMeta struct {
	OperationGUID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OperationKind      Kind      `gorm:"type:varchar(32);not null"`
	OperationNumber    int64     `gorm:"not null"`
	ExternalSourceName string    `gorm:"type:varchar(200)"`
}

// fillProperties snapshots the operation metadata onto the row
func fillProperties(op *Operation) ContentMeta {
	meta := ContentMeta{
		OperationGUID:   op.GUID,
		OperationKind:   op.Kind,
		OperationNumber: op.Number,
	}
	if op.ExternalSource != nil {
		meta.ExternalSourceName = op.ExternalSource.Name
	}
	return meta
}

// OperationPallet links an operation to a pallet. DependentPalletGUID points
// at a pallet derived from this one (movement-with-shipment rewires it when a
// pallet is divided mid-flight).
type OperationPallet struct {
	shared.BaseEntity
	ContentMeta
	PalletGUID          uuid.UUID  `gorm:"column:pallet_guid;type:uuid;not null;index"`
	DependentPalletGUID *uuid.UUID `gorm:"type:uuid;index"`
	Count               int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OperationPallet) TableName() string {
	return "operation_pallets"
}

// AttachPallet creates an operation-pallet row with its metadata snapshot
func AttachPallet(op *Operation, palletGUID uuid.UUID, count int) *OperationPallet {
	return &OperationPallet{
		BaseEntity:  shared.NewBaseEntity(),
		ContentMeta: fillProperties(op),
		PalletGUID:  palletGUID,
		Count:       count,
	}
}

// OperationProduct links an operation to an ordered product line. Count and
// Weight are the plan; FactCount and FactWeight are filled during content
// changes as the work is actually done.
type OperationProduct struct {
	shared.BaseEntity
	ContentMeta
	ProductID   *uuid.UUID       `gorm:"type:uuid;index"`
	ExternalKey string           `gorm:"type:varchar(64);index"` // order line key
	Count       int              `gorm:"not null;default:0"`
	Weight      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	FactCount   *int             `gorm:""`
	FactWeight  *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (OperationProduct) TableName() string {
	return "operation_products"
}

// AttachProduct creates an operation-product row with its metadata snapshot
func AttachProduct(op *Operation, productID *uuid.UUID, externalKey string, count int, weight decimal.Decimal) *OperationProduct {
	return &OperationProduct{
		BaseEntity:  shared.NewBaseEntity(),
		ContentMeta: fillProperties(op),
		ProductID:   productID,
		ExternalKey: externalKey,
		Count:       count,
		Weight:      weight,
	}
}

// OperationCell links an operation to a source and/or destination cell.
// Changed marks rows whose destination was filled in during a content change.
type OperationCell struct {
	shared.BaseEntity
	ContentMeta
	PalletGUID        *uuid.UUID `gorm:"type:uuid;index"`
	SourceCellID      *uuid.UUID `gorm:"type:uuid;index"`
	DestinationCellID *uuid.UUID `gorm:"type:uuid;index"`
	Count             int        `gorm:"not null;default:0"`
	Changed           bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OperationCell) TableName() string {
	return "operation_cells"
}

// AttachCell creates an operation-cell row with its metadata snapshot
func AttachCell(op *Operation, palletGUID, sourceCellID, destinationCellID *uuid.UUID, count int) *OperationCell {
	return &OperationCell{
		BaseEntity:        shared.NewBaseEntity(),
		ContentMeta:       fillProperties(op),
		PalletGUID:        palletGUID,
		SourceCellID:      sourceCellID,
		DestinationCellID: destinationCellID,
		Count:             count,
	}
}

// ResolvedCell returns the cell a placement settles into: the destination if
// one was filled in, the source otherwise.
func (c *OperationCell) ResolvedCell() *uuid.UUID {
	if c.DestinationCellID != nil {
		return c.DestinationCellID
	}
	return c.SourceCellID
}
