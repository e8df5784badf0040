package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Product represents a manufactured or stored product (SKU)
type Product struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	GTIN        string `gorm:"type:varchar(14);index"`
	ExpDate     int    // shelf life in days
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Storage represents a warehouse
type Storage struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Storage) TableName() string {
	return "storages"
}

// StorageCell represents a single addressable cell inside a warehouse.
// NeedsTaskFilter marks cells whose placement must be filtered against the
// task a pallet was selected for.
type StorageCell struct {
	shared.BaseEntity
	ExternalKey     string     `gorm:"type:varchar(64);uniqueIndex"`
	Name            string     `gorm:"type:varchar(200);not null"`
	StorageID       *uuid.UUID `gorm:"type:uuid;index"`
	NeedsTaskFilter bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StorageCell) TableName() string {
	return "storage_cells"
}

// Shift represents a production shift window
type Shift struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Number      string `gorm:"type:varchar(32)"`
	OpenedAt    time.Time
	ClosedAt    *time.Time
	Closed      bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// IsOpen reports whether the shift still accepts work
func (s *Shift) IsOpen() bool {
	return !s.Closed
}

// ProductionShop represents a production area pallets originate from
type ProductionShop struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ProductionShop) TableName() string {
	return "production_shops"
}

// Direction represents a shipment direction/route
type Direction struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Direction) TableName() string {
	return "directions"
}

// Client represents a counterparty a shipment is addressed to
type Client struct {
	shared.BaseEntity
	ExternalKey string `gorm:"type:varchar(64);uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}
