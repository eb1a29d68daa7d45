package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconcileReason is the reason recorded on reconciliation moves
const ReconcileReason = "Inventário"

// SessionService runs physical inventory counts
type SessionService struct {
	scope     unitofwork.TransactionScope
	engine    *StockEngine
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(scope unitofwork.TransactionScope, engine *StockEngine, publisher shared.EventPublisher, logger *zap.Logger) *SessionService {
	return &SessionService{
		scope:     scope,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateSession opens a counting session
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionResponse, error) {
	session, err := inventory.NewInventorySession(req.StoreID, req.Name, req.Sector, req.Actor.Ref())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.InventorySessions().Save(ctx, session); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "InventorySession", unitofwork.IDRef(session.ID), audit.ActionCreated,
			audit.Payload{"name": session.Name, "sector": session.Sector}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, nil)
	return &resp, nil
}

// GetSession returns a session with its counts
func (s *SessionService) GetSession(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionResponse, error) {
	var resp SessionResponse
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		session, err := repos.InventorySessions().FindByIDForStore(ctx, storeID, sessionID)
		if err != nil {
			return err
		}
		counts, err := repos.InventorySessions().FindCounts(ctx, session.ID)
		if err != nil {
			return err
		}
		resp = ToSessionResponse(session, counts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterCount records the counted quantity of a product, snapshotting the
// current system quantity. Counting a product again replaces its count and
// makes it pending again.
func (s *SessionService) RegisterCount(ctx context.Context, req RegisterCountRequest) (*CountResponse, error) {
	var count *inventory.InventoryCount
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		session, err := repos.InventorySessions().FindByIDForUpdate(ctx, req.StoreID, req.SessionID)
		if err != nil {
			return err
		}
		if err := session.EnsureOpen(); err != nil {
			return err
		}
		product, err := repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if err != nil {
			return err
		}

		snapshot := decimal.Zero
		item, err := repos.StockItems().FindByProduct(ctx, req.StoreID, product.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return err
		default:
			snapshot = item.Quantity
		}

		action := audit.ActionUpdated
		existing, err := repos.InventorySessions().FindCount(ctx, session.ID, product.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			action = audit.ActionCreated
			if count, err = inventory.NewInventoryCount(session, product.ID, req.CountedQty, snapshot, req.Actor.Ref()); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			count = existing
			if err := count.Recount(req.CountedQty, snapshot); err != nil {
				return err
			}
		}
		if err := repos.InventorySessions().SaveCount(ctx, count); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "InventoryCount", unitofwork.IDRef(count.ID), action, audit.Payload{
			"session_id":  session.ID,
			"product_id":  product.ID,
			"counted_qty": count.CountedQty.String(),
			"system_qty":  count.SystemQty.String(),
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	resp := ToCountResponse(count)
	return &resp, nil
}

// Reconcile emits one adjustment move per count that differs from its
// snapshot, marks every count reconciled and closes the session. A closed
// session cannot be reconciled again.
func (s *SessionService) Reconcile(ctx context.Context, storeID, sessionID uuid.UUID, actor shared.Actor) (*ReconcileResult, error) {
	res := &ReconcileResult{SessionID: sessionID}
	var results []*MoveResult
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		session, err := repos.InventorySessions().FindByIDForUpdate(ctx, storeID, sessionID)
		if err != nil {
			return err
		}
		counts, err := repos.InventorySessions().FindCounts(ctx, session.ID)
		if err != nil {
			return err
		}
		adjustments, err := session.Reconcile(counts)
		if err != nil {
			return err
		}

		moves := make([]*inventory.StockMove, 0, len(adjustments))
		for _, adj := range adjustments {
			move, err := inventory.NewStockMove(storeID, adj.ProductID, adj.Type, adj.Quantity, decimal.Zero,
				inventory.InventoryOrigin(session.ID), ReconcileReason, actor.Ref())
			if err != nil {
				return err
			}
			moves = append(moves, move)
			if adj.Type == inventory.MoveTypeAdjustmentIn {
				res.Inbound++
			} else {
				res.Outbound++
			}
		}
		if results, err = s.engine.RecordBatch(ctx, repos, moves); err != nil {
			return err
		}

		for i := range counts {
			if err := repos.InventorySessions().SaveCount(ctx, &counts[i]); err != nil {
				return err
			}
		}
		session.MarkUpdatedBy(actor.Ref())
		if err := repos.InventorySessions().Save(ctx, session); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "InventorySession", unitofwork.IDRef(session.ID), audit.ActionReconciled,
			audit.Payload{"inbound": res.Inbound, "outbound": res.Outbound}, actor)
	})
	if err != nil {
		s.logger.Debug("inventory reconciliation rejected", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("inventory session reconciled",
		zap.String("store_id", storeID.String()),
		zap.String("session_id", sessionID.String()),
		zap.Int("inbound", res.Inbound),
		zap.Int("outbound", res.Outbound),
	)
	unitofwork.PublishCommitted(ctx, s.publisher, s.logger, Alerts(results...)...)
	return res, nil
}
