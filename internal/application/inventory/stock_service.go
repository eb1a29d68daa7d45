package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockService handles manual stock operations and ledger queries
type StockService struct {
	scope     unitofwork.TransactionScope
	engine    *StockEngine
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(scope unitofwork.TransactionScope, engine *StockEngine, publisher shared.EventPublisher, logger *zap.Logger) *StockService {
	return &StockService{
		scope:     scope,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// AdjustStock records a manual entrada_ajuste or saida_ajuste. Inbound
// adjustments carry the product's current cost, outbound ones zero.
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockMoveResponse, error) {
	if !req.Type.IsAdjustment() {
		return nil, shared.NewFieldError("INVALID_MOVE_TYPE", "type", "Adjustment type must be entrada_ajuste or saida_ajuste")
	}

	var result *MoveResult
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if err != nil {
			return err
		}
		cost := decimal.Zero
		if req.Type == inventory.MoveTypeAdjustmentIn {
			cost = product.CostPrice
		}
		move, err := inventory.NewStockMove(req.StoreID, product.ID, req.Type, req.Quantity, cost,
			inventory.ManualOrigin(), req.Reason, req.Actor.Ref())
		if err != nil {
			return err
		}
		if result, err = s.engine.Record(ctx, repos, move); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "StockMove", unitofwork.IDRef(move.ID), audit.ActionAdjusted, audit.Payload{
			"product_id": product.ID,
			"type":       move.Type,
			"quantity":   move.Quantity.StringFixed(valueobject.QuantityPlaces),
			"reason":     req.Reason,
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("store_id", req.StoreID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("type", req.Type.String()),
		zap.String("quantity_after", result.Effect.QuantityAfter.String()),
	)
	unitofwork.PublishCommitted(ctx, s.publisher, s.logger, Alerts(result)...)
	resp := ToStockMoveResponse(result.Move)
	return &resp, nil
}

// GetStock returns the on-hand quantity of a product; zero when it never moved
func (s *StockService) GetStock(ctx context.Context, storeID, productID uuid.UUID) (*StockLevelResponse, error) {
	resp := &StockLevelResponse{ProductID: productID, Quantity: decimal.Zero, Reserved: decimal.Zero}
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if _, err := repos.Products().FindByIDForStore(ctx, storeID, productID); err != nil {
			return err
		}
		item, err := repos.StockItems().FindByProduct(ctx, storeID, productID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		resp.Quantity = item.Quantity
		resp.Reserved = item.Reserved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListMoves returns the move history of a product, newest first
func (s *StockService) ListMoves(ctx context.Context, storeID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[StockMoveResponse], error) {
	var (
		moves []inventory.StockMove
		total int64
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		moves, total, err = repos.StockMoves().FindByProduct(ctx, storeID, productID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[StockMoveResponse]{}, err
	}
	items := make([]StockMoveResponse, 0, len(moves))
	for i := range moves {
		items = append(items, ToStockMoveResponse(&moves[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// ReplayQuantity replays the full move ledger of a product from zero and
// compares it with the stored quantity
func (s *StockService) ReplayQuantity(ctx context.Context, storeID, productID uuid.UUID) (*ReplayResult, error) {
	res := &ReplayResult{ProductID: productID, Materialized: decimal.Zero}
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		moves, err := repos.StockMoves().FindAllByProduct(ctx, storeID, productID)
		if err != nil {
			return err
		}
		res.Moves = len(moves)
		res.Ledger = inventory.Replay(moves)

		item, err := repos.StockItems().FindByProduct(ctx, storeID, productID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return err
		default:
			res.Materialized = item.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Consistent = res.Ledger.Equal(res.Materialized)
	if !res.Consistent {
		s.logger.Error("stock ledger mismatch",
			zap.String("store_id", storeID.String()),
			zap.String("product_id", productID.String()),
			zap.String("ledger", res.Ledger.String()),
			zap.String("stock", res.Materialized.String()),
		)
	}
	return res, nil
}
