package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExternalSourceRepository implements ExternalSourceRepository using GORM
type GormExternalSourceRepository struct {
	db *gorm.DB
}

// NewGormExternalSourceRepository creates a new GormExternalSourceRepository
func NewGormExternalSourceRepository(db *gorm.DB) *GormExternalSourceRepository {
	return &GormExternalSourceRepository{db: db}
}

// FindByKey finds an external source by its external key
func (r *GormExternalSourceRepository) FindByKey(ctx context.Context, externalKey string) (*task.ExternalSource, error) {
	var source task.ExternalSource
	if err := r.db.WithContext(ctx).
		First(&source, "external_key = ?", externalKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

// GetOrCreate returns the existing reference for the key or persists a new
// one. The insert ignores the unique-key conflict so concurrent creates
// converge on the first row.
func (r *GormExternalSourceRepository) GetOrCreate(ctx context.Context, name, externalKey, number string, date time.Time) (*task.ExternalSource, error) {
	source := task.NewExternalSource(name, externalKey, number, date)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_key"}},
			DoNothing: true,
		}).
		Create(source).Error; err != nil {
		return nil, err
	}
	// re-read: on conflict the insert wrote nothing and the guid in hand is
	// not the persisted one
	return r.FindByKey(ctx, externalKey)
}

// Ensure GormExternalSourceRepository implements ExternalSourceRepository
var _ task.ExternalSourceRepository = (*GormExternalSourceRepository)(nil)
