package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetGUID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// GUID is the primary identity everywhere; sequential document numbers are
// presentation-only and never used for lookups.
type BaseEntity struct {
	GUID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetGUID returns the entity GUID
func (e *BaseEntity) GetGUID() uuid.UUID {
	return e.GUID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with a generated v4 GUID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		GUID:      uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the updated-at timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
