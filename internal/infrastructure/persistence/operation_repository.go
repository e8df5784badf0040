package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"gorm.io/gorm"
)

// GormOperationRepository implements OperationRepository using GORM
type GormOperationRepository struct {
	db *gorm.DB
}

// NewGormOperationRepository creates a new GormOperationRepository
func NewGormOperationRepository(db *gorm.DB) *GormOperationRepository {
	return &GormOperationRepository{db: db}
}

// FindByGUID finds an operation by its guid
func (r *GormOperationRepository) FindByGUID(ctx context.Context, guid uuid.UUID) (*task.Operation, error) {
	var op task.Operation
	if err := r.db.WithContext(ctx).
		Preload("ExternalSource").
		First(&op, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// FindByGUIDAndKind finds an operation by guid, requiring the given kind
func (r *GormOperationRepository) FindByGUIDAndKind(ctx context.Context, guid uuid.UUID, kind task.Kind) (*task.Operation, error) {
	var op task.Operation
	if err := r.db.WithContext(ctx).
		Preload("ExternalSource").
		Where("guid = ? AND kind = ?", guid, kind).
		First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// FindByExternalKey finds the operation of a kind created from the upstream
// document with that external key
func (r *GormOperationRepository) FindByExternalKey(ctx context.Context, kind task.Kind, externalKey string) (*task.Operation, error) {
	var op task.Operation
	if err := r.db.WithContext(ctx).
		Preload("ExternalSource").
		Joins("JOIN external_sources ON external_sources.guid = operations.external_source_id").
		Where("operations.kind = ? AND external_sources.external_key = ?", kind, externalKey).
		First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// List finds all operations of a kind matching the filter
func (r *GormOperationRepository) List(ctx context.Context, kind task.Kind, filter shared.Filter) ([]task.Operation, error) {
	var ops []task.Operation
	query := r.db.WithContext(ctx).
		Preload("ExternalSource").
		Model(&task.Operation{}).
		Where("kind = ?", kind)
	query = r.applyFilter(query, filter)

	if err := query.Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// Create persists a new operation
func (r *GormOperationRepository) Create(ctx context.Context, op *task.Operation) error {
	return r.db.WithContext(ctx).Omit("ExternalSource").Create(op).Error
}

// Save updates an operation
func (r *GormOperationRepository) Save(ctx context.Context, op *task.Operation) error {
	return r.db.WithContext(ctx).Omit("ExternalSource").Save(op).Error
}

// NextNumber allocates the next value of the per-kind document sequence.
// Allocation is serialized per kind for the rest of the transaction so two
// concurrent creates cannot read the same maximum; the unique index on
// (kind, number) backstops the lock.
func (r *GormOperationRepository) NextNumber(ctx context.Context, kind task.Kind) (int64, error) {
	if err := r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "operations_number_"+kind.String()).Error; err != nil {
		return 0, err
	}

	var max int64
	if err := r.db.WithContext(ctx).
		Model(&task.Operation{}).
		Where("kind = ?", kind).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// FindOpenChildren returns the not-yet-closed children of a parent task
func (r *GormOperationRepository) FindOpenChildren(ctx context.Context, parentGUID uuid.UUID) ([]task.Operation, error) {
	var ops []task.Operation
	if err := r.db.WithContext(ctx).
		Where("parent_task_id = ? AND closed = ?", parentGUID, false).
		Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// FindExchangeGroup returns the not-forwarded operations of a kind inside
// the day window matching the grouping attributes
func (r *GormOperationRepository) FindExchangeGroup(ctx context.Context, kind task.Kind, dayStart, dayEnd time.Time, line, batchNumber string) ([]task.Operation, error) {
	query := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Where("ready_to_unload = ? AND unloaded = ?", false, false)
	if line != "" {
		query = query.Where("line = ?", line)
	}
	if batchNumber != "" {
		query = query.Where("batch_number = ?", batchNumber)
	}

	var ops []task.Operation
	if err := query.Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// MarkReadyToUnload flips ready_to_unload on every listed operation
func (r *GormOperationRepository) MarkReadyToUnload(ctx context.Context, guids []uuid.UUID) error {
	if len(guids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&task.Operation{}).
		Where("guid IN ?", guids).
		Updates(map[string]interface{}{
			"ready_to_unload": true,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// applyFilter applies filter options to the query
func (r *GormOperationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "visible_to":
			// the default worker view: the caller's own tasks plus
			// unclaimed work any device may take
			query = query.Where("user_id = ? OR status = ?", value, task.StatusNew)
		case "not_closed":
			if value == true {
				query = query.Where("closed = ?", false)
			}
		case "only_close":
			if value == true {
				query = query.Where("closed = ?", true)
			}
		case "status":
			query = query.Where("status = ?", value)
		case "number":
			query = query.Where("number = ?", value)
		case "line":
			query = query.Where("line = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "type_collect":
			query = query.Where("collect_kind = ?", value)
		case "parent_task":
			query = query.Where("parent_task_id = ?", value)
		case "direction":
			query = query.Where(
				"direction_id IN (SELECT guid FROM directions WHERE external_key = ?)", value)
		case "client":
			query = query.Where(
				"client_id IN (SELECT guid FROM clients WHERE external_key = ?)", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, OperationSortFields, "number")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("number ASC")
	}

	return query
}

// Ensure GormOperationRepository implements OperationRepository
var _ task.OperationRepository = (*GormOperationRepository)(nil)
