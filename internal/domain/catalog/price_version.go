package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PriceOrigin tells what produced a published price
type PriceOrigin string

const (
	PriceOriginManual       PriceOrigin = "manual"
	PriceOriginCategoryRule PriceOrigin = "regra_categoria"
	PriceOriginPromotion    PriceOrigin = "promocao"
)

// IsValid checks if the origin is known
func (o PriceOrigin) IsValid() bool {
	switch o {
	case PriceOriginManual, PriceOriginCategoryRule, PriceOriginPromotion:
		return true
	}
	return false
}

// PriceVersion is an immutable entry of a product's price history
type PriceVersion struct {
	shared.BaseEntity
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Origin     PriceOrigin     `gorm:"type:varchar(30);not null;default:manual"`
	ValidFrom  time.Time       `gorm:"not null"`
	ValidUntil *time.Time
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PriceVersion) TableName() string {
	return "price_versions"
}

// NewPriceVersion creates a price version valid from now
func NewPriceVersion(storeID, productID uuid.UUID, price decimal.Decimal, origin PriceOrigin, createdBy *uuid.UUID) (*PriceVersion, error) {
	price = valueobject.QuantizeMoney(price)
	if price.IsNegative() {
		return nil, shared.NewFieldError("INVALID_PRICE", "price", "Price cannot be negative")
	}
	if origin == "" {
		origin = PriceOriginManual
	}
	if !origin.IsValid() {
		return nil, shared.NewFieldError("INVALID_ORIGIN", "origin", "Unknown price origin")
	}
	base := shared.NewBaseEntity()
	return &PriceVersion{
		BaseEntity: base,
		StoreID:    storeID,
		ProductID:  productID,
		Price:      price,
		Origin:     origin,
		ValidFrom:  base.CreatedAt,
		CreatedBy:  createdBy,
	}, nil
}

// SimulatePrice returns cost × (1 + markup/100) at money precision
func SimulatePrice(cost, markupPercent decimal.Decimal) decimal.Decimal {
	return valueobject.ApplyMarkup(cost, markupPercent)
}
