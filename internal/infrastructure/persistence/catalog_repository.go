package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCatalogRepository implements catalog.Lookup using GORM. Catalog rows
// are reference data synchronized from upstream; this repository only reads.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func firstByExternalKey[T any](ctx context.Context, db *gorm.DB, key string) (*T, error) {
	var entity T
	if err := db.WithContext(ctx).First(&entity, "external_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// ProductByExternalKey resolves a product reference
func (r *GormCatalogRepository) ProductByExternalKey(ctx context.Context, key string) (*catalog.Product, error) {
	return firstByExternalKey[catalog.Product](ctx, r.db, key)
}

// StorageByExternalKey resolves a storage reference
func (r *GormCatalogRepository) StorageByExternalKey(ctx context.Context, key string) (*catalog.Storage, error) {
	return firstByExternalKey[catalog.Storage](ctx, r.db, key)
}

// CellByExternalKey resolves a storage cell reference
func (r *GormCatalogRepository) CellByExternalKey(ctx context.Context, key string) (*catalog.StorageCell, error) {
	return firstByExternalKey[catalog.StorageCell](ctx, r.db, key)
}

// ShiftByExternalKey resolves a shift reference
func (r *GormCatalogRepository) ShiftByExternalKey(ctx context.Context, key string) (*catalog.Shift, error) {
	return firstByExternalKey[catalog.Shift](ctx, r.db, key)
}

// ProductionShopByExternalKey resolves a production shop reference
func (r *GormCatalogRepository) ProductionShopByExternalKey(ctx context.Context, key string) (*catalog.ProductionShop, error) {
	return firstByExternalKey[catalog.ProductionShop](ctx, r.db, key)
}

// DirectionByExternalKey resolves a direction reference
func (r *GormCatalogRepository) DirectionByExternalKey(ctx context.Context, key string) (*catalog.Direction, error) {
	return firstByExternalKey[catalog.Direction](ctx, r.db, key)
}

// ClientByExternalKey resolves a client reference
func (r *GormCatalogRepository) ClientByExternalKey(ctx context.Context, key string) (*catalog.Client, error) {
	return firstByExternalKey[catalog.Client](ctx, r.db, key)
}

// CellNeedsTaskFilter reports whether a cell requires its placements to be
// filtered against the originating task. Unknown cells do not.
func (r *GormCatalogRepository) CellNeedsTaskFilter(ctx context.Context, cellID uuid.UUID) (bool, error) {
	var cell catalog.StorageCell
	if err := r.db.WithContext(ctx).
		Select("needs_task_filter").
		First(&cell, "guid = ?", cellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return cell.NeedsTaskFilter, nil
}

// Ensure GormCatalogRepository implements Lookup
var _ catalog.Lookup = (*GormCatalogRepository)(nil)
