package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MoveType is the kind of a stock movement; the direction is implied by it
type MoveType string

const (
	MoveTypePurchaseIn   MoveType = "entrada_compra"
	MoveTypeAdjustmentIn MoveType = "entrada_ajuste"
	MoveTypeSaleOut      MoveType = "saida_venda"
	MoveTypeAdjustOut    MoveType = "saida_ajuste"
	MoveTypeReturn       MoveType = "devolucao"
)

// IsValid returns true if the move type is valid
func (t MoveType) IsValid() bool {
	switch t {
	case MoveTypePurchaseIn, MoveTypeAdjustmentIn, MoveTypeSaleOut, MoveTypeAdjustOut, MoveTypeReturn:
		return true
	}
	return false
}

// IsOutbound returns true if the move takes stock out
func (t MoveType) IsOutbound() bool {
	return t == MoveTypeSaleOut || t == MoveTypeAdjustOut
}

// IsAdjustment returns true for manual or count adjustments
func (t MoveType) IsAdjustment() bool {
	return t == MoveTypeAdjustmentIn || t == MoveTypeAdjustOut
}

// String returns the string representation of MoveType
func (t MoveType) String() string {
	return string(t)
}

// OriginKind names the document a move came from
type OriginKind string

const (
	OriginPurchase  OriginKind = "purchase"
	OriginSale      OriginKind = "sale"
	OriginInventory OriginKind = "inventory"
	OriginManual    OriginKind = "manual"
)

// Origin is the document reference of a move. Manual moves carry no id;
// every other kind must.
type Origin struct {
	Kind  OriginKind `gorm:"column:ref_origin;type:varchar(30);not null;index:idx_stock_moves_origin,priority:1"`
	RefID *uuid.UUID `gorm:"column:ref_id;type:uuid;index:idx_stock_moves_origin,priority:2"`
}

// PurchaseOrigin references a purchase order
func PurchaseOrigin(id uuid.UUID) Origin { return Origin{Kind: OriginPurchase, RefID: &id} }

// SaleOrigin references a sale
func SaleOrigin(id uuid.UUID) Origin { return Origin{Kind: OriginSale, RefID: &id} }

// InventoryOrigin references an inventory session
func InventoryOrigin(id uuid.UUID) Origin { return Origin{Kind: OriginInventory, RefID: &id} }

// ManualOrigin marks a hand-made adjustment
func ManualOrigin() Origin { return Origin{Kind: OriginManual} }

// Validate checks the kind/id pairing
func (o Origin) Validate() error {
	switch o.Kind {
	case OriginPurchase, OriginSale, OriginInventory:
		if o.RefID == nil || *o.RefID == uuid.Nil {
			return shared.NewFieldError("INVALID_ORIGIN", "origin", "Origin document id is required")
		}
		return nil
	case OriginManual:
		if o.RefID != nil {
			return shared.NewFieldError("INVALID_ORIGIN", "origin", "Manual moves have no origin document")
		}
		return nil
	default:
		return shared.NewFieldError("INVALID_ORIGIN", "origin", "Unknown origin kind")
	}
}

const maxReasonLength = 200

// StockMove is an immutable stock movement fact. Quantity is always positive.
// There is no update or delete path for it: corrections are new moves.
type StockMove struct {
	shared.BaseEntity
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_moves_store_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_moves_store_product,priority:2"`
	Type      MoveType        `gorm:"type:varchar(20);not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Origin    Origin          `gorm:"embedded"`
	Reason    *string         `gorm:"type:varchar(200)"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockMove) TableName() string {
	return "stock_moves"
}

// NewStockMove creates a validated move with quantized quantity and cost
func NewStockMove(storeID, productID uuid.UUID, moveType MoveType, qty, cost decimal.Decimal, origin Origin, reason string, createdBy *uuid.UUID) (*StockMove, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_STORE", "store_id", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_PRODUCT", "product_id", "Product ID cannot be empty")
	}
	if !moveType.IsValid() {
		return nil, shared.NewFieldError("INVALID_MOVE_TYPE", "type", "Invalid stock move type")
	}
	qty = valueobject.QuantizeQty(qty)
	if !qty.IsPositive() {
		return nil, shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive")
	}
	cost = valueobject.QuantizeMoney(cost)
	if cost.IsNegative() {
		return nil, shared.NewFieldError("INVALID_COST", "cost", "Cost cannot be negative")
	}
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	m := &StockMove{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		Type:       moveType,
		Quantity:   qty,
		Cost:       cost,
		Origin:     origin,
		CreatedBy:  createdBy,
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		r := valueobject.Truncate(reason, maxReasonLength)
		m.Reason = &r
	}
	return m, nil
}

// SignedQuantity returns the quantity with the sign of its direction
func (m *StockMove) SignedQuantity() decimal.Decimal {
	if m.Type.IsOutbound() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
