package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormPalletProductRepository implements PalletProductRepository using GORM
type GormPalletProductRepository struct {
	db *gorm.DB
}

// NewGormPalletProductRepository creates a new GormPalletProductRepository
func NewGormPalletProductRepository(db *gorm.DB) *GormPalletProductRepository {
	return &GormPalletProductRepository{db: db}
}

// FindByPallet returns the product lines of a pallet
func (r *GormPalletProductRepository) FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]warehouse.PalletProduct, error) {
	var lines []warehouse.PalletProduct
	if err := r.db.WithContext(ctx).
		Where("pallet_guid = ?", palletGUID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByExternalKeys finds pallet product lines by their order line keys
func (r *GormPalletProductRepository) FindByExternalKeys(ctx context.Context, externalKeys []string) ([]warehouse.PalletProduct, error) {
	if len(externalKeys) == 0 {
		return []warehouse.PalletProduct{}, nil
	}
	var lines []warehouse.PalletProduct
	if err := r.db.WithContext(ctx).
		Where("external_key IN ?", externalKeys).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Save creates or updates a product line
func (r *GormPalletProductRepository) Save(ctx context.Context, line *warehouse.PalletProduct) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Ensure GormPalletProductRepository implements PalletProductRepository
var _ warehouse.PalletProductRepository = (*GormPalletProductRepository)(nil)
