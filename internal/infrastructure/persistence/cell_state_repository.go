package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormCellStateRepository implements the append-only cell occupancy ledger
// using GORM
type GormCellStateRepository struct {
	db *gorm.DB
}

// NewGormCellStateRepository creates a new GormCellStateRepository
func NewGormCellStateRepository(db *gorm.DB) *GormCellStateRepository {
	return &GormCellStateRepository{db: db}
}

// Append inserts an occupancy row
func (r *GormCellStateRepository) Append(ctx context.Context, state *warehouse.StorageCellContentState) error {
	return r.db.WithContext(ctx).Create(state).Error
}

// CurrentPallet returns the pallet occupying a cell according to the latest
// recorded state, or nil when the cell is empty
func (r *GormCellStateRepository) CurrentPallet(ctx context.Context, cellID uuid.UUID) (*uuid.UUID, error) {
	var latest warehouse.StorageCellContentState
	if err := r.db.WithContext(ctx).
		Where("cell_id = ?", cellID).
		Order("created_at DESC").
		First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if latest.State == warehouse.CellStateRemoved {
		return nil, nil
	}
	pallet := latest.PalletGUID
	return &pallet, nil
}

// Ensure GormCellStateRepository implements CellStateRepository
var _ warehouse.CellStateRepository = (*GormCellStateRepository)(nil)
