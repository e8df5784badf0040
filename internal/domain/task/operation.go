package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an operation
type Status string

const (
	StatusNew   Status = "NEW"
	StatusWork  Status = "WORK"
	StatusWait  Status = "WAIT"
	StatusClose Status = "CLOSE"
)

// Operation is a unit of warehouse or production work. One concrete struct
// covers every kind; kind-specific behavior lives in the router entry and the
// close strategy selected by Kind.
//
// Flag ordering invariant: Unloaded implies ReadyToUnload implies Closed.
type Operation struct {
	shared.BaseEntity
	Kind             Kind        `gorm:"type:varchar(32);not null;uniqueIndex:idx_operations_kind_number"`
	Number           int64       `gorm:"not null;uniqueIndex:idx_operations_kind_number"` // per-kind monotonic sequence
	Date             time.Time   `gorm:"not null"`
	Status           Status      `gorm:"type:varchar(8);not null;default:'NEW'"`
	Closed           bool        `gorm:"not null;default:false"`
	ReadyToUnload    bool        `gorm:"not null;default:false"`
	Unloaded         bool        `gorm:"not null;default:false"`
	ExternalSourceID *uuid.UUID  `gorm:"type:uuid;index"`
	ParentTaskID     *uuid.UUID  `gorm:"type:uuid;index"`
	UserID           *uuid.UUID  `gorm:"type:uuid;index"`
	CollectKind      CollectKind `gorm:"type:varchar(16)"`
	StorageID        *uuid.UUID  `gorm:"type:uuid"`
	DirectionID      *uuid.UUID  `gorm:"type:uuid"`
	ClientID         *uuid.UUID  `gorm:"type:uuid"`
	ShiftID          *uuid.UUID  `gorm:"type:uuid"`

	// Grouping attributes for the exchange gate
	Line        string `gorm:"type:varchar(64);index"`
	BatchNumber string `gorm:"type:varchar(64);index"`

	ExternalSource *ExternalSource `gorm:"foreignKey:ExternalSourceID"`
}

// TableName returns the table name for GORM
func (Operation) TableName() string {
	return "operations"
}

// NewOperation creates an operation of the given kind in status NEW
func NewOperation(kind Kind) *Operation {
	return &Operation{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		Date:       time.Now(),
		Status:     StatusNew,
	}
}

// Take claims the operation for the given user and moves it NEW->WORK.
// A second take while in WORK is rejected.
func (o *Operation) Take(userID uuid.UUID) error {
	if o.Status == StatusWork {
		return shared.ErrAlreadyInProgress
	}
	o.Status = StatusWork
	o.UserID = &userID
	o.Touch()
	return nil
}

// Close marks the operation closed. Export eligibility is granted separately
// by the exchange gate; closing here only settles the lifecycle state.
func (o *Operation) Close() {
	o.Status = StatusClose
	o.Closed = true
	o.Touch()
}

// IsClosed reports whether the operation has finished its lifecycle
func (o *Operation) IsClosed() bool {
	return o.Closed && o.Status == StatusClose
}

// MarkReadyToUnload flags the operation as eligible for export.
// Only closed operations can become ready.
func (o *Operation) MarkReadyToUnload() error {
	if !o.Closed {
		return shared.NewDomainError("INVALID_STATE", "Operation must be closed before it is ready to unload")
	}
	o.ReadyToUnload = true
	o.Touch()
	return nil
}

// MarkUnloaded confirms the operation was exported. Unload is terminal and
// idempotent.
func (o *Operation) MarkUnloaded() error {
	if !o.ReadyToUnload {
		return shared.NewDomainError("INVALID_STATE", "Operation must be ready to unload before unload confirmation")
	}
	o.Unloaded = true
	o.Touch()
	return nil
}

// Owner returns the owning user, or uuid.Nil when unassigned
func (o *Operation) Owner() uuid.UUID {
	if o.UserID == nil {
		return uuid.Nil
	}
	return *o.UserID
}

// ExternalSource is an upstream document reference. ExternalKey is the
// idempotency key for task creation: one upstream document, one operation.
type ExternalSource struct {
	shared.BaseEntity
	Name        string    `gorm:"type:varchar(200)"`
	ExternalKey string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Number      string    `gorm:"type:varchar(64)"`
	Date        time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (ExternalSource) TableName() string {
	return "external_sources"
}

// NewExternalSource creates an upstream document reference
func NewExternalSource(name, externalKey, number string, date time.Time) *ExternalSource {
	return &ExternalSource{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		ExternalKey: externalKey,
		Number:      number,
		Date:        date,
	}
}
