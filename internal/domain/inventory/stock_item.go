package inventory

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockItem is the on-hand quantity of one product in one store.
// It is a cache of the StockMove ledger and only the stock engine writes it.
type StockItem struct {
	shared.BaseEntity
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_stock_items_store_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_stock_items_store_product,priority:2"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	Reserved  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock row
func NewStockItem(storeID, productID uuid.UUID) *StockItem {
	return &StockItem{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		Quantity:   decimal.Zero,
		Reserved:   decimal.Zero,
	}
}

// CompareProductIDs orders product ids the way the database orders uuid
// columns. Multi-product operations lock stock rows in this order.
func CompareProductIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
