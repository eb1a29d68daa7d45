package inventory

import (
	"context"
	"slices"

	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MoveResult is what recording one move produced
type MoveResult struct {
	Move   *inventory.StockMove
	Effect inventory.MoveEffect
	// Alert is set when an outbound move took the product to its reorder point
	Alert *inventory.StockBelowReorderPointEvent
}

// StockEngine is the only writer of StockItem.Quantity and Product.CostPrice.
// Every call runs inside the caller's unit of work.
type StockEngine struct {
	logger *zap.Logger
}

// NewStockEngine creates a StockEngine
func NewStockEngine(logger *zap.Logger) *StockEngine {
	return &StockEngine{logger: logger}
}

// Record applies one move: it locks (store, product), applies the move to the
// locked row, then appends the move and writes quantity and cost back.
func (e *StockEngine) Record(ctx context.Context, repos unitofwork.TransactionalRepositories, move *inventory.StockMove) (*MoveResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "stock.record_move",
		telemetry.SpanAttrStoreID, move.StoreID,
		telemetry.SpanAttrProductID, move.ProductID,
		telemetry.SpanAttrMoveType, move.Type.String(),
		telemetry.SpanAttrQuantity, move.Quantity,
	)
	defer span.End()

	result, err := e.record(ctx, repos, move)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "quantity_after", result.Effect.QuantityAfter)
	return result, nil
}

func (e *StockEngine) record(ctx context.Context, repos unitofwork.TransactionalRepositories, move *inventory.StockMove) (*MoveResult, error) {
	item, err := repos.StockItems().LockOrCreate(ctx, move.StoreID, move.ProductID)
	if err != nil {
		return nil, err
	}
	// Cost is read under the stock row lock, so it includes every committed receipt
	product, err := repos.Products().FindForStock(ctx, move.StoreID, move.ProductID)
	if err != nil {
		return nil, err
	}

	effect, err := inventory.ApplyMove(item, product.CostPrice, move)
	if err != nil {
		e.logger.Debug("stock move rejected",
			zap.String("store_id", move.StoreID.String()),
			zap.String("product_id", move.ProductID.String()),
			zap.String("type", move.Type.String()),
			zap.String("quantity", move.Quantity.String()),
			zap.String("available", item.Quantity.String()),
		)
		return nil, err
	}

	if err := repos.StockMoves().Create(ctx, move); err != nil {
		return nil, err
	}
	if err := repos.StockItems().UpdateQuantity(ctx, item); err != nil {
		return nil, err
	}
	if effect.CostChanged() {
		if err := repos.Products().UpdateCost(ctx, move.StoreID, move.ProductID, effect.CostAfter); err != nil {
			return nil, err
		}
	}

	result := &MoveResult{Move: move, Effect: effect}
	reorder := product.ReorderPoint
	if move.Type.IsOutbound() && reorder.IsPositive() &&
		effect.QuantityAfter.LessThanOrEqual(reorder) && effect.QuantityBefore.GreaterThan(reorder) {
		result.Alert = inventory.NewStockBelowReorderPointEvent(item, reorder)
	}
	return result, nil
}

// RecordBatch records moves in ascending product id order so that two
// transactions touching the same products always lock them in the same order
func (e *StockEngine) RecordBatch(ctx context.Context, repos unitofwork.TransactionalRepositories, moves []*inventory.StockMove) ([]*MoveResult, error) {
	ordered := slices.Clone(moves)
	slices.SortStableFunc(ordered, func(a, b *inventory.StockMove) int {
		return inventory.CompareProductIDs(a.ProductID, b.ProductID)
	})

	results := make([]*MoveResult, 0, len(ordered))
	for _, m := range ordered {
		r, err := e.Record(ctx, repos, m)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Alerts collects the reorder alerts of results
func Alerts(results ...*MoveResult) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, r := range results {
		if r != nil && r.Alert != nil {
			events = append(events, r.Alert)
		}
	}
	return events
}
