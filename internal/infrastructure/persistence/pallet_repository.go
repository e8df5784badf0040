package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPalletRepository implements PalletRepository using GORM
type GormPalletRepository struct {
	db *gorm.DB
}

// NewGormPalletRepository creates a new GormPalletRepository
func NewGormPalletRepository(db *gorm.DB) *GormPalletRepository {
	return &GormPalletRepository{db: db}
}

// FindByGUID finds a pallet by its guid
func (r *GormPalletRepository) FindByGUID(ctx context.Context, guid uuid.UUID) (*warehouse.Pallet, error) {
	var pallet warehouse.Pallet
	if err := r.db.WithContext(ctx).
		Preload("Products").
		First(&pallet, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pallet, nil
}

// FindByCode finds a pallet by its scan code
func (r *GormPalletRepository) FindByCode(ctx context.Context, code string) (*warehouse.Pallet, error) {
	var pallet warehouse.Pallet
	if err := r.db.WithContext(ctx).
		Preload("Products").
		First(&pallet, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pallet, nil
}

// FindByExternalKey finds a pallet by its upstream external key
func (r *GormPalletRepository) FindByExternalKey(ctx context.Context, externalKey string) (*warehouse.Pallet, error) {
	var pallet warehouse.Pallet
	if err := r.db.WithContext(ctx).
		Preload("Products").
		First(&pallet, "external_key = ?", externalKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pallet, nil
}

// FindByCodeForUpdate locks the pallet row for the rest of the transaction
func (r *GormPalletRepository) FindByCodeForUpdate(ctx context.Context, code string) (*warehouse.Pallet, error) {
	var pallet warehouse.Pallet
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pallet, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pallet, nil
}

// FindByGUIDForUpdate locks the pallet row for the rest of the transaction
func (r *GormPalletRepository) FindByGUIDForUpdate(ctx context.Context, guid uuid.UUID) (*warehouse.Pallet, error) {
	var pallet warehouse.Pallet
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pallet, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pallet, nil
}

// Create persists a new pallet
func (r *GormPalletRepository) Create(ctx context.Context, pallet *warehouse.Pallet) error {
	return r.db.WithContext(ctx).Omit("Products").Create(pallet).Error
}

// Save updates a pallet
func (r *GormPalletRepository) Save(ctx context.Context, pallet *warehouse.Pallet) error {
	return r.db.WithContext(ctx).Omit("Products").Save(pallet).Error
}

// Ensure GormPalletRepository implements PalletRepository
var _ warehouse.PalletRepository = (*GormPalletRepository)(nil)
