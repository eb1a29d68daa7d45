package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	StoreID       uuid.UUID       `json:"-"`
	Name          string          `json:"name" binding:"required,min=1,max=120"`
	DefaultMarkup decimal.Decimal `json:"default_markup"`
	Actor         shared.Actor    `json:"-"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	DefaultMarkup decimal.Decimal `json:"default_markup"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		DefaultMarkup: c.DefaultMarkup,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	StoreID      uuid.UUID       `json:"-"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	SKU          string          `json:"sku" binding:"max=60"`
	EAN          string          `json:"ean" binding:"omitempty,ean"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Unit         string          `json:"unit" binding:"omitempty,oneof=UN KG L"`
	NCM          string          `json:"ncm" binding:"max=10"`
	CEST         string          `json:"cest" binding:"max=10"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	TargetMargin decimal.Decimal `json:"target_margin"`
	MinStock     decimal.Decimal `json:"min_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Actor        shared.Actor    `json:"-"`
}

// UpdateProductRequest represents a request to update the editable fields of a product
type UpdateProductRequest struct {
	StoreID      uuid.UUID        `json:"-"`
	ProductID    uuid.UUID        `json:"-"`
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU          *string          `json:"sku" binding:"omitempty,max=60"`
	EAN          *string          `json:"ean" binding:"omitempty,ean"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	Unit         *string          `json:"unit" binding:"omitempty,oneof=UN KG L"`
	NCM          *string          `json:"ncm" binding:"omitempty,max=10"`
	CEST         *string          `json:"cest" binding:"omitempty,max=10"`
	MinStock     *decimal.Decimal `json:"min_stock"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
	TargetMargin *decimal.Decimal `json:"target_margin"`
	PhotoURL     *string          `json:"photo_url" binding:"omitempty,max=255"`
	Active       *bool            `json:"active"`
	Actor        shared.Actor     `json:"-"`
}

func (r UpdateProductRequest) toDomain() catalog.ProductUpdate {
	u := catalog.ProductUpdate{
		Name:         r.Name,
		SKU:          r.SKU,
		EAN:          r.EAN,
		CategoryID:   r.CategoryID,
		NCM:          r.NCM,
		CEST:         r.CEST,
		MinStock:     r.MinStock,
		ReorderPoint: r.ReorderPoint,
		TargetMargin: r.TargetMargin,
		PhotoURL:     r.PhotoURL,
		Active:       r.Active,
	}
	if r.Unit != nil {
		unit := catalog.Unit(*r.Unit)
		u.Unit = &unit
	}
	return u
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          *string         `json:"sku"`
	EAN          *string         `json:"ean"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Unit         string          `json:"unit"`
	NCM          string          `json:"ncm"`
	CEST         string          `json:"cest"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	TargetMargin decimal.Decimal `json:"target_margin"`
	MinStock     decimal.Decimal `json:"min_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	PhotoURL     string          `json:"photo_url,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		EAN:          p.EAN,
		CategoryID:   p.CategoryID,
		Unit:         p.Unit.String(),
		NCM:          p.NCM,
		CEST:         p.CEST,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		TargetMargin: p.TargetMargin,
		MinStock:     p.MinStock,
		ReorderPoint: p.ReorderPoint,
		PhotoURL:     p.PhotoURL,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// SimulatePriceResponse is a suggested sale price
type SimulatePriceResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Cost      decimal.Decimal `json:"cost"`
	Markup    decimal.Decimal `json:"markup"`
	Price     decimal.Decimal `json:"price"`
}

// PublishPriceRequest publishes a new sale price
type PublishPriceRequest struct {
	StoreID   uuid.UUID       `json:"-"`
	ProductID uuid.UUID       `json:"-"`
	Price     decimal.Decimal `json:"price"`
	Origin    string          `json:"origin" binding:"omitempty,oneof=manual regra_categoria promocao"`
	Actor     shared.Actor    `json:"-"`
}

// PriceVersionResponse is an entry of a price history
type PriceVersionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Price      decimal.Decimal `json:"price"`
	Origin     string          `json:"origin"`
	ValidFrom  time.Time       `json:"valid_from"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
}

// ToPriceVersionResponse converts a domain price version
func ToPriceVersionResponse(pv *catalog.PriceVersion) PriceVersionResponse {
	return PriceVersionResponse{
		ID:         pv.ID,
		Price:      pv.Price,
		Origin:     string(pv.Origin),
		ValidFrom:  pv.ValidFrom,
		ValidUntil: pv.ValidUntil,
		CreatedBy:  pv.CreatedBy,
	}
}

// CreatePromoRequest represents a request to create a promo
type CreatePromoRequest struct {
	StoreID    uuid.UUID       `json:"-"`
	Name       string          `json:"name" binding:"required,min=1,max=120"`
	Type       string          `json:"type" binding:"required,oneof=desconto_percentual leve3_pague2 combo"`
	Value      decimal.Decimal `json:"value"`
	ValidFrom  time.Time       `json:"valid_from"`
	ValidUntil *time.Time      `json:"valid_until"`
	Priority   *int            `json:"priority" binding:"omitempty,min=0"`
	Actor      shared.Actor    `json:"-"`
}

// PromoResponse represents a promo in API responses
type PromoResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	ValidFrom  time.Time       `json:"valid_from"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Priority   int             `json:"priority"`
	Active     bool            `json:"active"`
}

// ToPromoResponse converts a domain promo
func ToPromoResponse(p *catalog.Promo) *PromoResponse {
	resp := &PromoResponse{
		ID:         p.ID,
		Name:       p.Name,
		ValidFrom:  p.ValidFrom,
		ValidUntil: p.ValidUntil,
		Priority:   p.Priority,
		Active:     p.Active,
	}
	if rule, err := p.ParsedRule(); err == nil {
		resp.Type = string(rule.Type)
		resp.Value = rule.Value
	}
	return resp
}

// QuoteResponse is the price a sale line would get right now
type QuoteResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	PromoID   *uuid.UUID      `json:"promo_id,omitempty"`
}
