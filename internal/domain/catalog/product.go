package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product is a sellable item of a store.
// CostPrice is the weighted-average cost and is written only by the stock
// engine; SalePrice changes only through price publication.
type Product struct {
	shared.StoreAggregateRoot
	shared.Lifecycle
	SKU          *string         `gorm:"type:varchar(60);index"`
	EAN          *string         `gorm:"type:varchar(14);index"`
	Name         string          `gorm:"type:varchar(200);not null;index"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Unit         Unit            `gorm:"type:varchar(4);not null;default:UN"`
	NCM          string          `gorm:"type:varchar(10)"`
	CEST         string          `gorm:"type:varchar(10)"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TargetMargin decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	PhotoURL     string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProductInput carries the fields accepted on product creation
type NewProductInput struct {
	Name         string
	SKU          string
	EAN          string
	CategoryID   *uuid.UUID
	Unit         Unit
	NCM          string
	CEST         string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	TargetMargin decimal.Decimal
	MinStock     decimal.Decimal
	ReorderPoint decimal.Decimal
}

// NewProduct creates an active product with quantized money and quantity fields
func NewProduct(storeID uuid.UUID, in NewProductInput, createdBy *uuid.UUID) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Product name is required")
	}
	ean, err := valueobject.ParseEAN(in.EAN)
	if err != nil {
		return nil, err
	}
	unit := in.Unit
	if unit == "" {
		unit = UnitPiece
	}
	if !unit.IsValid() {
		return nil, shared.NewFieldError("INVALID_UNIT", "unit", "Unit must be UN, KG or L")
	}

	p := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Lifecycle:          shared.NewLifecycle(),
		SKU:                optional(in.SKU),
		EAN:                ean,
		Name:               name,
		CategoryID:         in.CategoryID,
		Unit:               unit,
		NCM:                strings.TrimSpace(in.NCM),
		CEST:               strings.TrimSpace(in.CEST),
		CostPrice:          valueobject.QuantizeMoney(in.CostPrice),
		SalePrice:          valueobject.QuantizeMoney(in.SalePrice),
		TargetMargin:       in.TargetMargin.Round(2),
		MinStock:           valueobject.QuantizeQty(in.MinStock),
		ReorderPoint:       valueobject.QuantizeQty(in.ReorderPoint),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductUpdate lists the editable fields of a product; nil means unchanged.
// Prices and cost are deliberately absent.
type ProductUpdate struct {
	Name         *string
	SKU          *string
	EAN          *string
	CategoryID   *uuid.UUID
	Unit         *Unit
	NCM          *string
	CEST         *string
	MinStock     *decimal.Decimal
	ReorderPoint *decimal.Decimal
	TargetMargin *decimal.Decimal
	PhotoURL     *string
	Active       *bool
}

// ApplyUpdate applies the editable fields and returns the changed columns
func (p *Product) ApplyUpdate(u ProductUpdate) ([]string, error) {
	var cols []string
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, shared.NewFieldError("INVALID_NAME", "name", "Product name is required")
		}
		p.Name = name
		cols = append(cols, "name")
	}
	if u.SKU != nil {
		p.SKU = optional(*u.SKU)
		cols = append(cols, "sku")
	}
	if u.EAN != nil {
		ean, err := valueobject.ParseEAN(*u.EAN)
		if err != nil {
			return nil, err
		}
		p.EAN = ean
		cols = append(cols, "ean")
	}
	if u.CategoryID != nil {
		if *u.CategoryID == uuid.Nil {
			p.CategoryID = nil
		} else {
			id := *u.CategoryID
			p.CategoryID = &id
		}
		cols = append(cols, "category_id")
	}
	if u.Unit != nil {
		if !u.Unit.IsValid() {
			return nil, shared.NewFieldError("INVALID_UNIT", "unit", "Unit must be UN, KG or L")
		}
		p.Unit = *u.Unit
		cols = append(cols, "unit")
	}
	if u.NCM != nil {
		p.NCM = strings.TrimSpace(*u.NCM)
		cols = append(cols, "ncm")
	}
	if u.CEST != nil {
		p.CEST = strings.TrimSpace(*u.CEST)
		cols = append(cols, "cest")
	}
	if u.MinStock != nil {
		p.MinStock = valueobject.QuantizeQty(*u.MinStock)
		cols = append(cols, "min_stock")
	}
	if u.ReorderPoint != nil {
		p.ReorderPoint = valueobject.QuantizeQty(*u.ReorderPoint)
		cols = append(cols, "reorder_point")
	}
	if u.TargetMargin != nil {
		p.TargetMargin = u.TargetMargin.Round(2)
		cols = append(cols, "target_margin")
	}
	if u.PhotoURL != nil {
		p.PhotoURL = strings.TrimSpace(*u.PhotoURL)
		cols = append(cols, "photo_url")
	}
	if u.Active != nil {
		p.Active = *u.Active
		cols = append(cols, "active")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return cols, nil
}

// ChangeSalePrice sets the current sale price
func (p *Product) ChangeSalePrice(price decimal.Decimal) error {
	price = valueobject.QuantizeMoney(price)
	if price.IsNegative() {
		return shared.NewFieldError("INVALID_PRICE", "price", "Price cannot be negative")
	}
	p.SalePrice = price
	return nil
}

// Sellable reports whether the product can be referenced by new documents
func (p *Product) Sellable() bool {
	return p.Usable()
}

// Snapshot returns the auditable view of the product
func (p *Product) Snapshot() map[string]any {
	return map[string]any{
		"name":          p.Name,
		"sku":           deref(p.SKU),
		"ean":           deref(p.EAN),
		"category_id":   p.CategoryID,
		"unit":          p.Unit,
		"ncm":           p.NCM,
		"cest":          p.CEST,
		"sale_price":    p.SalePrice.StringFixed(2),
		"min_stock":     p.MinStock.StringFixed(4),
		"reorder_point": p.ReorderPoint.StringFixed(4),
		"target_margin": p.TargetMargin.StringFixed(2),
		"photo_url":     p.PhotoURL,
		"active":        p.Active,
	}
}

func (p *Product) validate() error {
	if p.SalePrice.IsNegative() {
		return shared.NewFieldError("INVALID_PRICE", "sale_price", "Price cannot be negative")
	}
	if p.CostPrice.IsNegative() {
		return shared.NewFieldError("INVALID_COST", "cost_price", "Cost cannot be negative")
	}
	if p.MinStock.IsNegative() {
		return shared.NewFieldError("INVALID_QUANTITY", "min_stock", "Quantity cannot be negative")
	}
	if p.ReorderPoint.IsNegative() {
		return shared.NewFieldError("INVALID_QUANTITY", "reorder_point", "Quantity cannot be negative")
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
