package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormPalletSourceRepository implements the append-only withdrawal ledger
// using GORM. Ledger rows are only ever inserted.
type GormPalletSourceRepository struct {
	db *gorm.DB
}

// NewGormPalletSourceRepository creates a new GormPalletSourceRepository
func NewGormPalletSourceRepository(db *gorm.DB) *GormPalletSourceRepository {
	return &GormPalletSourceRepository{db: db}
}

// Append inserts a withdrawal row
func (r *GormPalletSourceRepository) Append(ctx context.Context, row *warehouse.PalletSource) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByPallet returns the withdrawal history of a source pallet
func (r *GormPalletSourceRepository) FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]warehouse.PalletSource, error) {
	var rows []warehouse.PalletSource
	if err := r.db.WithContext(ctx).
		Where("pallet_guid = ?", palletGUID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumCountByExternalKeys sums the ledger counts grouped by order line key
func (r *GormPalletSourceRepository) SumCountByExternalKeys(ctx context.Context, externalKeys []string) (map[string]int, error) {
	if len(externalKeys) == 0 {
		return map[string]int{}, nil
	}

	type keySum struct {
		ExternalKey string
		Total       int
	}
	var rows []keySum
	if err := r.db.WithContext(ctx).
		Model(&warehouse.PalletSource{}).
		Select("external_key, COALESCE(SUM(count), 0) AS total").
		Where("external_key IN ?", externalKeys).
		Group("external_key").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[string]int, len(rows))
	for _, row := range rows {
		sums[row.ExternalKey] = row.Total
	}
	return sums, nil
}

// Ensure GormPalletSourceRepository implements PalletSourceRepository
var _ warehouse.PalletSourceRepository = (*GormPalletSourceRepository)(nil)
