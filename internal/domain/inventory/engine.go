package inventory

import (
	"fmt"

	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MoveEffect describes what applying a move did to a stock item
type MoveEffect struct {
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	CostBefore     decimal.Decimal
	CostAfter      decimal.Decimal
}

// CostChanged reports whether the product cost must be persisted
func (e MoveEffect) CostChanged() bool {
	return !e.CostBefore.Equal(e.CostAfter)
}

// ApplyMove applies move to item, which must be locked by the caller.
// currentCost is the product's weighted-average cost. Outbound moves that
// would leave the item negative fail with ErrInsufficientStock and leave
// item untouched. Purchase receipts recompute the average cost:
//
//	newCost = (oldCost × (newQty − q) + c × q) / newQty
//
// and newCost = c when newQty is not positive.
func ApplyMove(item *StockItem, currentCost decimal.Decimal, move *StockMove) (MoveEffect, error) {
	if item.StoreID != move.StoreID || item.ProductID != move.ProductID {
		return MoveEffect{}, shared.NewDomainError("STOCK_ITEM_MISMATCH", "Stock item does not match the move")
	}
	eff := MoveEffect{
		QuantityBefore: item.Quantity,
		CostBefore:     currentCost,
		CostAfter:      currentCost,
	}

	newQty := valueobject.QuantizeQty(item.Quantity.Add(move.SignedQuantity()))
	if newQty.IsNegative() {
		return MoveEffect{}, shared.ErrInsufficientStock.WithMessage(fmt.Sprintf(
			"Insufficient stock: available %s, requested %s",
			item.Quantity.StringFixed(valueobject.QuantityPlaces),
			move.Quantity.StringFixed(valueobject.QuantityPlaces),
		))
	}

	if move.Type == MoveTypePurchaseIn {
		if newQty.IsPositive() {
			previous := currentCost.Mul(newQty.Sub(move.Quantity))
			incoming := move.Cost.Mul(move.Quantity)
			eff.CostAfter = valueobject.QuantizeMoney(previous.Add(incoming).Div(newQty))
		} else {
			eff.CostAfter = move.Cost
		}
	}

	item.Quantity = newQty
	item.Touch()
	eff.QuantityAfter = newQty
	return eff, nil
}

// Replay folds moves into the quantity they produce starting from zero
func Replay(moves []StockMove) decimal.Decimal {
	total := decimal.Zero
	for i := range moves {
		total = total.Add(moves[i].SignedQuantity())
	}
	return valueobject.QuantizeQty(total)
}
