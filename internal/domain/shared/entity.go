package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lifecycle holds the two independent lifecycle flags of catalog-like records.
// Deleted archives the record for good; Active disables it temporarily.
// Queries must filter deleted = false explicitly.
type Lifecycle struct {
	Deleted bool `gorm:"not null;default:false;index"`
	Active  bool `gorm:"not null;default:true"`
}

// NewLifecycle returns an active, non-deleted lifecycle
func NewLifecycle() Lifecycle {
	return Lifecycle{Active: true}
}

// Usable reports whether the record may be referenced by new operations
func (l Lifecycle) Usable() bool {
	return !l.Deleted && l.Active
}
