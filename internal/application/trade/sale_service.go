package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appidentity "github.com/mercearia/backend/internal/application/identity"
	appinventory "github.com/mercearia/backend/internal/application/inventory"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService handles checkout
type SaleService struct {
	scope     unitofwork.TransactionScope
	engine    *appinventory.StockEngine
	resolver  *catalog.PriceResolver
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSaleService creates a new SaleService. A nil resolver prices with the
// default rule interpreters.
func NewSaleService(scope unitofwork.TransactionScope, engine *appinventory.StockEngine, resolver *catalog.PriceResolver, publisher shared.EventPublisher, logger *zap.Logger) *SaleService {
	if resolver == nil {
		resolver = catalog.DefaultPriceResolver()
	}
	return &SaleService{
		scope:     scope,
		engine:    engine,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// OpenSale opens an empty sale for an operator of the store
func (s *SaleService) OpenSale(ctx context.Context, req OpenSaleRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if _, err := appidentity.LoadAuthorized(ctx, repos, req.StoreID, req.Actor, identity.CheckoutRoles...); err != nil {
			return err
		}
		if req.CashRegisterID != nil {
			_, err := repos.CashRegisters().FindByIDForStore(ctx, req.StoreID, *req.CashRegisterID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewFieldError("INVALID_CASH_REGISTER", "cash_register_id", "Cash register not found")
			}
			if err != nil {
				return err
			}
		}
		sale = trade.NewSale(req.StoreID, req.CashRegisterID, req.Actor.Ref())
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Sale", unitofwork.IDRef(sale.ID), audit.ActionOpened,
			audit.Payload{"cash_register_id": req.CashRegisterID}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sale opened", zap.String("store_id", req.StoreID.String()), zap.String("sale_id", sale.ID.String()))
	return ToSaleResponse(sale), nil
}

// AddSaleItem prices a product with the store's winning promo and appends it
// to an open sale
func (s *SaleService) AddSaleItem(ctx context.Context, req AddSaleItemRequest) (*SaleResponse, error) {
	qty := valueobject.QuantizeQty(req.Quantity)
	if !qty.IsPositive() {
		return nil, shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive")
	}

	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, req.StoreID, req.SaleID)
		if err != nil {
			return err
		}
		if err := sale.EnsureOpen(); err != nil {
			return err
		}
		product, err := repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewFieldError("INVALID_PRODUCT", "product_id", "Product not found")
		}
		if err != nil {
			return err
		}
		if !product.Sellable() {
			return shared.NewFieldError("INVALID_PRODUCT", "product_id", "Product is inactive")
		}
		promo, err := repos.Promos().FindApplicable(ctx, req.StoreID, s.now().UTC())
		if err != nil {
			return err
		}

		quote := s.resolver.Resolve(product, qty, promo)
		item, err := sale.AddItem(product.ID, qty, quote.UnitPrice, quote.Discount, quote.PromoID)
		if err != nil {
			return err
		}
		if err := repos.Sales().CreateItem(ctx, item); err != nil {
			return err
		}
		sale.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Sales().Update(ctx, sale); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Sale", unitofwork.IDRef(sale.ID), audit.ActionItemAdded, audit.Payload{
			"item_id":    item.ID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity.StringFixed(valueobject.QuantityPlaces),
			"unit_price": item.UnitPrice.StringFixed(valueobject.MoneyPlaces),
			"discount":   item.Discount.StringFixed(valueobject.MoneyPlaces),
			"promo_id":   item.PromoID,
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// RemoveSaleItem removes a line from an open sale. Without a sale id the
// sale is resolved from the line.
func (s *SaleService) RemoveSaleItem(ctx context.Context, req RemoveSaleItemRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		saleID := req.SaleID
		if saleID == uuid.Nil {
			item, err := repos.Sales().FindItemForStore(ctx, req.StoreID, req.ItemID)
			if err != nil {
				return err
			}
			saleID = item.SaleID
		}
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, req.StoreID, saleID)
		if err != nil {
			return err
		}
		item, err := sale.RemoveItem(req.ItemID)
		if err != nil {
			return err
		}
		if err := repos.Sales().DeleteItem(ctx, item); err != nil {
			return err
		}
		sale.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Sales().Update(ctx, sale); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Sale", unitofwork.IDRef(sale.ID), audit.ActionItemRemoved, audit.Payload{
			"item_id":    item.ID,
			"product_id": item.ProductID,
			"total":      item.Total.StringFixed(valueobject.MoneyPlaces),
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// PaySale concludes an open sale and takes every line out of stock. A
// shortage on any line rolls the whole payment back.
func (s *SaleService) PaySale(ctx context.Context, req PaySaleRequest) (*SaleResponse, error) {
	var (
		sale    *trade.Sale
		results []*appinventory.MoveResult
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, req.StoreID, req.SaleID)
		if err != nil {
			return err
		}
		if req.CustomerID != nil {
			_, err := repos.Customers().FindByIDForStore(ctx, req.StoreID, *req.CustomerID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewFieldError("INVALID_CUSTOMER", "customer_id", "Customer not found")
			}
			if err != nil {
				return err
			}
		}
		if err := sale.Pay(req.Payment, req.AmountPaid, req.CustomerID, req.Actor.Ref()); err != nil {
			return err
		}

		moves, err := saleMoves(sale, inventory.MoveTypeSaleOut, "", req.Actor)
		if err != nil {
			return err
		}
		if results, err = s.engine.RecordBatch(ctx, repos, moves); err != nil {
			return err
		}
		if err := repos.Sales().Update(ctx, sale); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Sale", unitofwork.IDRef(sale.ID), audit.ActionPaid, audit.Payload{
			"payment":     req.Payment,
			"total":       sale.Total.StringFixed(valueobject.MoneyPlaces),
			"amount_paid": sale.AmountPaid.StringFixed(valueobject.MoneyPlaces),
			"change":      sale.Change.StringFixed(valueobject.MoneyPlaces),
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale paid",
		zap.String("store_id", req.StoreID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.String()),
		zap.String("payment", string(req.Payment)),
	)
	s.publish(ctx, sale, results)
	return ToSaleResponse(sale), nil
}

// CancelSale cancels an open or concluded sale. Lines of a sale with a
// positive total go back to stock as devolucao moves, whether or not it was
// paid.
func (s *SaleService) CancelSale(ctx context.Context, req CancelSaleRequest) (*SaleResponse, error) {
	var (
		sale     *trade.Sale
		results  []*appinventory.MoveResult
		returned bool
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, req.StoreID, req.SaleID)
		if err != nil {
			return err
		}
		previous := sale.Status
		if returned, err = sale.Cancel(req.Reason, req.Actor.Ref()); err != nil {
			return err
		}
		if returned {
			moves, err := saleMoves(sale, inventory.MoveTypeReturn, *sale.CancelReason, req.Actor)
			if err != nil {
				return err
			}
			if results, err = s.engine.RecordBatch(ctx, repos, moves); err != nil {
				return err
			}
		}
		if err := repos.Sales().Update(ctx, sale); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Sale", unitofwork.IDRef(sale.ID), audit.ActionCancelled, audit.Payload{
			"previous_status": previous,
			"reason":          *sale.CancelReason,
			"stock_returned":  returned,
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale cancelled",
		zap.String("store_id", req.StoreID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.Bool("stock_returned", returned),
	)
	s.publish(ctx, sale, results)
	return ToSaleResponse(sale), nil
}

// GetSale returns a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, storeID, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForStore(ctx, storeID, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

func (s *SaleService) publish(ctx context.Context, sale *trade.Sale, results []*appinventory.MoveResult) {
	events := append(sale.GetDomainEvents(), appinventory.Alerts(results...)...)
	sale.ClearDomainEvents()
	unitofwork.PublishCommitted(ctx, s.publisher, s.logger, events...)
}

// saleMoves builds one move of moveType per sale line, tied to the sale
func saleMoves(sale *trade.Sale, moveType inventory.MoveType, reason string, actor shared.Actor) ([]*inventory.StockMove, error) {
	origin := inventory.SaleOrigin(sale.ID)
	moves := make([]*inventory.StockMove, 0, len(sale.Items))
	for i := range sale.Items {
		it := &sale.Items[i]
		move, err := inventory.NewStockMove(sale.StoreID, it.ProductID, moveType, it.Quantity, decimal.Zero,
			origin, reason, actor.Ref())
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}
	return moves, nil
}
