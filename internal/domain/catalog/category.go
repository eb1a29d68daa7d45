package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category groups products and carries a default markup used by price rules
type Category struct {
	shared.StoreAggregateRoot
	shared.Lifecycle
	Name          string          `gorm:"type:varchar(120);not null"`
	DefaultMarkup decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category; the name is unique per store
func NewCategory(storeID uuid.UUID, name string, defaultMarkup decimal.Decimal, createdBy *uuid.UUID) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Category name is required")
	}
	if defaultMarkup.IsNegative() {
		return nil, shared.NewFieldError("INVALID_MARKUP", "markup", "Markup cannot be negative")
	}
	return &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Lifecycle:          shared.NewLifecycle(),
		Name:               name,
		DefaultMarkup:      defaultMarkup.Round(2),
	}, nil
}
