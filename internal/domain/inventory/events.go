package inventory

import (
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeStockBelowReorderPoint is published when on-hand quantity reaches
// the product's reorder point
const EventTypeStockBelowReorderPoint = "StockBelowReorderPoint"

// StockBelowReorderPointEvent signals that a product should be reordered
type StockBelowReorderPointEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// NewStockBelowReorderPointEvent creates the event for a stock item
func NewStockBelowReorderPointEvent(item *StockItem, reorderPoint decimal.Decimal) *StockBelowReorderPointEvent {
	return &StockBelowReorderPointEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderPoint, "StockItem", item.ID, item.StoreID),
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		ReorderPoint:    reorderPoint,
	}
}
