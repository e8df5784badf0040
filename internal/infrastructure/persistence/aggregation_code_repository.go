package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAggregationCodeRepository implements AggregationCodeRepository using GORM
type GormAggregationCodeRepository struct {
	db *gorm.DB
}

// NewGormAggregationCodeRepository creates a new GormAggregationCodeRepository
func NewGormAggregationCodeRepository(db *gorm.DB) *GormAggregationCodeRepository {
	return &GormAggregationCodeRepository{db: db}
}

// Attach links a code to a pallet unless the code is already attached to any
// pallet. The unique index on code makes re-scans no-ops; RowsAffected tells
// the caller whether this scan was the first.
func (r *GormAggregationCodeRepository) Attach(ctx context.Context, palletGUID uuid.UUID, code string) (bool, error) {
	row := &warehouse.AggregationCode{
		BaseEntity: shared.NewBaseEntity(),
		PalletGUID: palletGUID,
		Code:       code,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByPallet returns the codes attached to a pallet
func (r *GormAggregationCodeRepository) FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]warehouse.AggregationCode, error) {
	var codes []warehouse.AggregationCode
	if err := r.db.WithContext(ctx).
		Where("pallet_guid = ?", palletGUID).
		Order("created_at ASC").
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Ensure GormAggregationCodeRepository implements AggregationCodeRepository
var _ warehouse.AggregationCodeRepository = (*GormAggregationCodeRepository)(nil)
