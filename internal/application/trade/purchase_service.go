package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/mercearia/backend/internal/application/inventory"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService handles the purchase order workflow: draft, issue, receive
type PurchaseService struct {
	scope     unitofwork.TransactionScope
	engine    *appinventory.StockEngine
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope unitofwork.TransactionScope, engine *appinventory.StockEngine, publisher shared.EventPublisher, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		scope:     scope,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePurchaseOrder creates a draft order for an active supplier of the store
func (s *PurchaseService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseResponse, error) {
	lines := make([]trade.PurchaseLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, trade.PurchaseLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Cost:      it.Cost,
			Discount:  it.Discount,
		})
	}
	purchase, err := trade.NewPurchase(req.StoreID, req.SupplierID, lines, req.Notes, req.Actor.Ref())
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		supplier, err := repos.Suppliers().FindByIDForStore(ctx, req.StoreID, req.SupplierID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewFieldError("INVALID_SUPPLIER", "supplier_id", "Supplier not found")
		}
		if err != nil {
			return err
		}
		if !supplier.Usable() {
			return shared.NewFieldError("INVALID_SUPPLIER", "supplier_id", "Supplier is inactive")
		}
		if err := ensureSellable(ctx, repos, req.StoreID, purchaseProductIDs(purchase)); err != nil {
			return err
		}
		if err := repos.Purchases().Create(ctx, purchase); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Purchase", unitofwork.IDRef(purchase.ID), audit.ActionCreated, audit.Payload{
			"supplier_id":    purchase.SupplierID,
			"items":          len(purchase.Items),
			"expected_total": purchase.ExpectedTotal.StringFixed(valueobject.MoneyPlaces),
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("store_id", req.StoreID.String()),
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("expected_total", purchase.ExpectedTotal.String()),
	)
	return ToPurchaseResponse(purchase), nil
}

// SubmitPurchaseOrder issues a draft order
func (s *PurchaseService) SubmitPurchaseOrder(ctx context.Context, storeID, purchaseID uuid.UUID, actor shared.Actor) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForUpdate(ctx, storeID, purchaseID)
		if err != nil {
			return err
		}
		if err := purchase.Submit(actor.Ref()); err != nil {
			return err
		}
		if err := repos.Purchases().Update(ctx, purchase); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Purchase", unitofwork.IDRef(purchase.ID), audit.ActionSubmitted,
			audit.Payload{"status": purchase.Status}, actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase order issued", zap.String("store_id", storeID.String()), zap.String("purchase_id", purchaseID.String()))
	return ToPurchaseResponse(purchase), nil
}

// ReceivePurchaseOrder receives goods. Every line becomes an entrada_compra
// move; the received quantity is then recomputed from the ledger and, when
// the order is complete, its single payable is generated.
func (s *PurchaseService) ReceivePurchaseOrder(ctx context.Context, req ReceivePurchaseRequest) (*ReceiptResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewFieldError("EMPTY_ITEMS", "items", "Receipt must have at least one item")
	}

	var (
		purchase *trade.Purchase
		results  []*appinventory.MoveResult
		received decimal.Decimal
		payable  *finance.Payable
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForUpdate(ctx, req.StoreID, req.PurchaseID)
		if err != nil {
			return err
		}
		if err := purchase.EnsureReceivable(); err != nil {
			return err
		}

		origin := inventory.PurchaseOrigin(purchase.ID)
		moves := make([]*inventory.StockMove, 0, len(req.Items))
		for _, line := range req.Items {
			item, ok := purchase.ItemFor(line.ProductID)
			if !ok {
				return shared.NewFieldError("INVALID_PRODUCT", "items", "Product is not part of this purchase")
			}
			cost := item.Cost
			if line.Cost != nil {
				cost = *line.Cost
			}
			move, err := inventory.NewStockMove(req.StoreID, line.ProductID, inventory.MoveTypePurchaseIn,
				line.Quantity, cost, origin, "", req.Actor.Ref())
			if err != nil {
				return err
			}
			purchase.AddReceivedValue(move.Quantity, move.Cost)
			moves = append(moves, move)
		}

		if results, err = s.engine.RecordBatch(ctx, repos, moves); err != nil {
			return err
		}
		received, err = repos.StockMoves().SumQuantity(ctx, req.StoreID, inventory.MoveTypePurchaseIn, origin)
		if err != nil {
			return err
		}
		completed := purchase.ApplyReceipt(received, req.Actor.Ref())
		if err := repos.Purchases().Update(ctx, purchase); err != nil {
			return err
		}
		if completed {
			if payable, err = s.generatePayable(ctx, repos, purchase, req.Actor); err != nil {
				return err
			}
		}

		payload := audit.Payload{
			"status":         purchase.Status,
			"lines":          len(moves),
			"received_qty":   received.StringFixed(valueobject.QuantityPlaces),
			"received_total": purchase.ReceivedTotal.StringFixed(valueobject.MoneyPlaces),
		}
		if payable != nil {
			payload["payable_id"] = payable.ID
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Purchase", unitofwork.IDRef(purchase.ID), audit.ActionReceived, payload, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase received",
		zap.String("store_id", req.StoreID.String()),
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("status", purchase.Status.String()),
		zap.String("received_qty", received.String()),
	)
	events := append(purchase.GetDomainEvents(), appinventory.Alerts(results...)...)
	purchase.ClearDomainEvents()
	unitofwork.PublishCommitted(ctx, s.publisher, s.logger, events...)

	res := &ReceiptResult{Purchase: ToPurchaseResponse(purchase), Received: received}
	if payable != nil {
		res.PayableID = unitofwork.IDRef(payable.ID)
	}
	return res, nil
}

// generatePayable creates the payable of a completed purchase unless one
// already exists for it. Nothing is owed for a zero-value order.
func (s *PurchaseService) generatePayable(ctx context.Context, repos unitofwork.TransactionalRepositories, purchase *trade.Purchase, actor shared.Actor) (*finance.Payable, error) {
	amount := purchase.PayableAmount()
	if !amount.IsPositive() {
		return nil, nil
	}
	exists, err := repos.Payables().ExistsForSource(ctx, purchase.StoreID, finance.SourcePurchase, purchase.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Warn("payable already generated for purchase", zap.String("purchase_id", purchase.ID.String()))
		return nil, nil
	}

	termDays := 0
	supplier, err := repos.Suppliers().FindByIDForStore(ctx, purchase.StoreID, purchase.SupplierID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		termDays = supplier.PaymentTermDays
	}

	supplierID := purchase.SupplierID
	payable, err := finance.NewPurchasePayable(purchase.StoreID, purchase.ID, &supplierID, amount, termDays, s.now(), actor.Ref())
	if err != nil {
		return nil, err
	}
	if err := repos.Payables().Save(ctx, payable); err != nil {
		return nil, err
	}
	return payable, nil
}

// CancelPurchaseOrder cancels an order that has not received anything
func (s *PurchaseService) CancelPurchaseOrder(ctx context.Context, storeID, purchaseID uuid.UUID, actor shared.Actor) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForUpdate(ctx, storeID, purchaseID)
		if err != nil {
			return err
		}
		if err := purchase.Cancel(actor.Ref()); err != nil {
			return err
		}
		if err := repos.Purchases().Update(ctx, purchase); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Purchase", unitofwork.IDRef(purchase.ID), audit.ActionCancelled, nil, actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase order cancelled", zap.String("store_id", storeID.String()), zap.String("purchase_id", purchaseID.String()))
	return ToPurchaseResponse(purchase), nil
}

// GetPurchaseOrder returns an order with its lines
func (s *PurchaseService) GetPurchaseOrder(ctx context.Context, storeID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForStore(ctx, storeID, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponse(purchase), nil
}

// ListPurchaseOrders lists the store's orders, optionally by status
func (s *PurchaseService) ListPurchaseOrders(ctx context.Context, storeID uuid.UUID, status trade.PurchaseStatus, filter shared.Filter) (shared.Paginated[PurchaseResponse], error) {
	if status != "" && !status.IsValid() {
		return shared.Paginated[PurchaseResponse]{}, shared.NewFieldError("INVALID_STATUS", "status", "Invalid purchase status")
	}
	var (
		purchases []trade.Purchase
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		purchases, total, err = repos.Purchases().FindAllForStore(ctx, storeID, status, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[PurchaseResponse]{}, err
	}
	items := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, *ToPurchaseResponse(&purchases[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

func purchaseProductIDs(p *trade.Purchase) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Items))
	for i := range p.Items {
		ids = append(ids, p.Items[i].ProductID)
	}
	return ids
}

// ensureSellable fails when any id is not an active product of the store
func ensureSellable(ctx context.Context, repos unitofwork.TransactionalRepositories, storeID uuid.UUID, ids []uuid.UUID) error {
	products, err := repos.Products().FindByIDs(ctx, storeID, ids)
	if err != nil {
		return err
	}
	usable := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		usable[products[i].ID] = products[i].Sellable()
	}
	for _, id := range ids {
		if !usable[id] {
			return shared.NewFieldError("INVALID_PRODUCT", "items", "Product "+id.String()+" is not available")
		}
	}
	return nil
}
