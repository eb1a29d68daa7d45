package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService handles price simulation, price publication and promos
type PricingService struct {
	scope    unitofwork.TransactionScope
	resolver *catalog.PriceResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewPricingService creates a new PricingService
func NewPricingService(scope unitofwork.TransactionScope, resolver *catalog.PriceResolver, logger *zap.Logger) *PricingService {
	if resolver == nil {
		resolver = catalog.DefaultPriceResolver()
	}
	return &PricingService{
		scope:    scope,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// SimulatePrice suggests cost × (1 + markup/100). Without an explicit
// markup the category default is used, or zero without a category.
func (s *PricingService) SimulatePrice(ctx context.Context, storeID, productID uuid.UUID, markup *decimal.Decimal) (*SimulatePriceResponse, error) {
	resp := &SimulatePriceResponse{ProductID: productID}
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, storeID, productID)
		if err != nil {
			return err
		}
		resp.Cost = product.CostPrice
		switch {
		case markup != nil:
			resp.Markup = *markup
		case product.CategoryID != nil:
			category, err := repos.Categories().FindByIDForStore(ctx, storeID, *product.CategoryID)
			if err != nil {
				return err
			}
			resp.Markup = category.DefaultMarkup
		default:
			resp.Markup = decimal.Zero
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.Markup.IsNegative() {
		return nil, shared.NewFieldError("INVALID_MARKUP", "markup", "Markup cannot be negative")
	}
	resp.Price = catalog.SimulatePrice(resp.Cost, resp.Markup)
	return resp, nil
}

// PublishPrice appends a price version and makes it the current sale price
func (s *PricingService) PublishPrice(ctx context.Context, req PublishPriceRequest) (*PriceVersionResponse, error) {
	var version *catalog.PriceVersion
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if err != nil {
			return err
		}
		version, err = catalog.NewPriceVersion(req.StoreID, product.ID, req.Price, catalog.PriceOrigin(req.Origin), req.Actor.Ref())
		if err != nil {
			return err
		}
		before := product.SalePrice
		if err := product.ChangeSalePrice(version.Price); err != nil {
			return err
		}
		product.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Products().UpdateColumns(ctx, product, "sale_price"); err != nil {
			return err
		}
		if err := repos.PriceVersions().Create(ctx, version); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Product", unitofwork.IDRef(product.ID), audit.ActionPriceChange, audit.Payload{
			"before": before.StringFixed(valueobject.MoneyPlaces),
			"after":  version.Price.StringFixed(valueobject.MoneyPlaces),
			"origin": version.Origin,
		}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("price published",
		zap.String("store_id", req.StoreID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("price", version.Price.String()),
	)
	resp := ToPriceVersionResponse(version)
	return &resp, nil
}

// PriceHistory returns the price versions of a product, newest first
func (s *PricingService) PriceHistory(ctx context.Context, storeID, productID uuid.UUID) ([]PriceVersionResponse, error) {
	var versions []catalog.PriceVersion
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if _, err := repos.Products().FindByIDForStore(ctx, storeID, productID); err != nil {
			return err
		}
		var err error
		versions, err = repos.PriceVersions().FindByProduct(ctx, storeID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]PriceVersionResponse, 0, len(versions))
	for i := range versions {
		out = append(out, ToPriceVersionResponse(&versions[i]))
	}
	return out, nil
}

// Quote prices qty units of a product the way checkout would right now
func (s *PricingService) Quote(ctx context.Context, storeID, productID uuid.UUID, qty decimal.Decimal) (*QuoteResponse, error) {
	qty = valueobject.QuantizeQty(qty)
	if !qty.IsPositive() {
		return nil, shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive")
	}
	var quote catalog.PriceQuote
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, storeID, productID)
		if err != nil {
			return err
		}
		promo, err := repos.Promos().FindApplicable(ctx, storeID, s.now().UTC())
		if err != nil {
			return err
		}
		quote = s.resolver.Resolve(product, qty, promo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: quote.UnitPrice,
		Gross:     quote.Gross,
		Discount:  quote.Discount,
		Total:     quote.Total,
		PromoID:   quote.PromoID,
	}, nil
}

// CreatePromo creates a store-wide promo
func (s *PricingService) CreatePromo(ctx context.Context, req CreatePromoRequest) (*PromoResponse, error) {
	priority := catalog.DefaultPromoPriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	promo, err := catalog.NewPromo(req.StoreID, req.Name, catalog.PromoRule{Type: catalog.PromoKind(req.Type), Value: req.Value},
		req.ValidFrom, req.ValidUntil, priority, req.Actor.Ref())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.Promos().Save(ctx, promo); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Promo", unitofwork.IDRef(promo.ID), audit.ActionCreated,
			audit.Payload{"name": promo.Name, "rule": promo.Rule, "priority": promo.Priority}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToPromoResponse(promo), nil
}

// DeactivatePromo turns a promo off
func (s *PricingService) DeactivatePromo(ctx context.Context, storeID, promoID uuid.UUID, actor shared.Actor) (*PromoResponse, error) {
	var promo *catalog.Promo
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		promo, err = repos.Promos().FindByIDForStore(ctx, storeID, promoID)
		if err != nil {
			return err
		}
		promo.Deactivate()
		promo.MarkUpdatedBy(actor.Ref())
		if err := repos.Promos().Save(ctx, promo); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Promo", unitofwork.IDRef(promo.ID), audit.ActionUpdated,
			audit.Payload{"active": false}, actor)
	})
	if err != nil {
		return nil, err
	}
	return ToPromoResponse(promo), nil
}

// ListPromos returns the store's promos
func (s *PricingService) ListPromos(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]PromoResponse, error) {
	var promos []catalog.Promo
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		promos, err = repos.Promos().FindAllForStore(ctx, storeID, activeOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]PromoResponse, 0, len(promos))
	for i := range promos {
		out = append(out, *ToPromoResponse(&promos[i]))
	}
	return out, nil
}
