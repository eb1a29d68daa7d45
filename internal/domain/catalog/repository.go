package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Category, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}

// ProductRepository defines persistence for products.
// Find methods never return deleted products, except FindForStock.
type ProductRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)
	// FindForStock loads a product even when deleted; used by the stock engine
	FindForStock(ctx context.Context, storeID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindByEAN(ctx context.Context, storeID uuid.UUID, ean string) (*Product, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	Create(ctx context.Context, product *Product) error
	// UpdateColumns persists only the listed columns
	UpdateColumns(ctx context.Context, product *Product, columns ...string) error
	// UpdateCost writes the weighted-average cost; reserved for the stock engine
	UpdateCost(ctx context.Context, storeID, productID uuid.UUID, cost decimal.Decimal) error
}

// PriceVersionRepository is append-only
type PriceVersionRepository interface {
	Create(ctx context.Context, pv *PriceVersion) error
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]PriceVersion, error)
}

// PromoRepository defines persistence for promos
type PromoRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Promo, error)
	// FindApplicable returns the valid promo with the lowest priority (ties by id), or nil
	FindApplicable(ctx context.Context, storeID uuid.UUID, at time.Time) (*Promo, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]Promo, error)
	Save(ctx context.Context, promo *Promo) error
}
