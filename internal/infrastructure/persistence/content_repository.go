package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"gorm.io/gorm"
)

// GormContentRepository implements ContentRepository using GORM
type GormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository creates a new GormContentRepository
func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// PalletsOf returns the pallet rows of an operation
func (r *GormContentRepository) PalletsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationPallet, error) {
	var rows []task.OperationPallet
	if err := r.db.WithContext(ctx).
		Where("operation_guid = ?", operationGUID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ProductsOf returns the product rows of an operation
func (r *GormContentRepository) ProductsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationProduct, error) {
	var rows []task.OperationProduct
	if err := r.db.WithContext(ctx).
		Where("operation_guid = ?", operationGUID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CellsOf returns the cell rows of an operation
func (r *GormContentRepository) CellsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationCell, error) {
	var rows []task.OperationCell
	if err := r.db.WithContext(ctx).
		Where("operation_guid = ?", operationGUID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SavePallet creates or updates a pallet row
func (r *GormContentRepository) SavePallet(ctx context.Context, row *task.OperationPallet) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// SaveProduct creates or updates a product row
func (r *GormContentRepository) SaveProduct(ctx context.Context, row *task.OperationProduct) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// SaveCell creates or updates a cell row
func (r *GormContentRepository) SaveCell(ctx context.Context, row *task.OperationCell) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// FindProductsByExternalKeys finds product rows across operations by their
// order line keys
func (r *GormContentRepository) FindProductsByExternalKeys(ctx context.Context, externalKeys []string) ([]task.OperationProduct, error) {
	if len(externalKeys) == 0 {
		return []task.OperationProduct{}, nil
	}
	var rows []task.OperationProduct
	if err := r.db.WithContext(ctx).
		Where("external_key IN ?", externalKeys).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindPalletLink finds the operation-pallet row of an operation for a pallet
func (r *GormContentRepository) FindPalletLink(ctx context.Context, operationGUID, palletGUID uuid.UUID) (*task.OperationPallet, error) {
	var row task.OperationPallet
	if err := r.db.WithContext(ctx).
		Where("operation_guid = ? AND pallet_guid = ?", operationGUID, palletGUID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Ensure GormContentRepository implements ContentRepository
var _ task.ContentRepository = (*GormContentRepository)(nil)
