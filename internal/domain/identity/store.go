package identity

import (
	"strings"

	"github.com/mercearia/backend/internal/domain/shared"
)

// Store is the tenant boundary: every other record belongs to exactly one store
type Store struct {
	shared.BaseAggregateRoot
	shared.Lifecycle
	Name     string `gorm:"type:varchar(120);not null;uniqueIndex"`
	CNPJ     string `gorm:"type:varchar(18)"`
	IE       string `gorm:"type:varchar(32)"`
	UF       string `gorm:"type:varchar(2)"`
	City     string `gorm:"type:varchar(80)"`
	Timezone string `gorm:"type:varchar(40);not null;default:America/Sao_Paulo"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// DefaultTimezone is used when a store does not configure one
const DefaultTimezone = "America/Sao_Paulo"

// NewStore creates an active store
func NewStore(name string) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Store name is required")
	}
	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         shared.NewLifecycle(),
		Name:              name,
		Timezone:          DefaultTimezone,
	}, nil
}
