package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations.
// It never writes CostPrice or SalePrice after creation: cost belongs to the
// stock engine and price to PricingService.
type ProductService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(scope unitofwork.TransactionScope, logger *zap.Logger) *ProductService {
	return &ProductService{scope: scope, logger: logger}
}

// Create creates a product together with its zeroed stock item
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.StoreID, catalog.NewProductInput{
		Name:         req.Name,
		SKU:          req.SKU,
		EAN:          req.EAN,
		CategoryID:   req.CategoryID,
		Unit:         catalog.Unit(req.Unit),
		NCM:          req.NCM,
		CEST:         req.CEST,
		CostPrice:    req.CostPrice,
		SalePrice:    req.SalePrice,
		TargetMargin: req.TargetMargin,
		MinStock:     req.MinStock,
		ReorderPoint: req.ReorderPoint,
	}, req.Actor.Ref())
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if product.CategoryID != nil {
			if _, err := repos.Categories().FindByIDForStore(ctx, req.StoreID, *product.CategoryID); err != nil {
				return categoryNotFound(err)
			}
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		if err := repos.StockItems().Create(ctx, inventory.NewStockItem(req.StoreID, product.ID)); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Product", unitofwork.IDRef(product.ID), audit.ActionCreated,
			audit.Payload(product.Snapshot()), req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("store_id", req.StoreID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	return ToProductResponse(product), nil
}

// Update changes the editable fields of a product and audits before/after
func (s *ProductService) Update(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if err != nil {
			return err
		}
		before := product.Snapshot()

		update := req.toDomain()
		if update.CategoryID != nil && *update.CategoryID != uuid.Nil {
			if _, err := repos.Categories().FindByIDForStore(ctx, req.StoreID, *update.CategoryID); err != nil {
				return categoryNotFound(err)
			}
		}
		cols, err := product.ApplyUpdate(update)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return nil
		}
		product.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Products().UpdateColumns(ctx, product, cols...); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Product", unitofwork.IDRef(product.ID), audit.ActionUpdated,
			audit.Payload{"before": before, "after": product.Snapshot()}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Delete marks a product deleted. Its stock history is kept.
func (s *ProductService) Delete(ctx context.Context, storeID, productID uuid.UUID, actor shared.Actor) error {
	return s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, storeID, productID)
		if err != nil {
			return err
		}
		product.Deleted = true
		product.MarkUpdatedBy(actor.Ref())
		if err := repos.Products().UpdateColumns(ctx, product, "deleted"); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Product", unitofwork.IDRef(product.ID), audit.ActionDeleted,
			audit.Payload(product.Snapshot()), actor)
	})
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByIDForStore(ctx, storeID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByBarcode looks a product up by its scanned barcode
func (s *ProductService) GetByBarcode(ctx context.Context, storeID uuid.UUID, raw string) (*ProductResponse, error) {
	ean, err := valueobject.ParseEAN(raw)
	if err != nil {
		return nil, err
	}
	if ean == nil {
		return nil, shared.NewFieldError("INVALID_EAN", "ean", "Barcode is required")
	}
	var product *catalog.Product
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err = repos.Products().FindByEAN(ctx, storeID, *ean)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns a page of the store's products
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	var (
		products []catalog.Product
		total    int64
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		products, total, err = repos.Products().FindAllForStore(ctx, storeID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *ToProductResponse(&products[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

func categoryNotFound(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewFieldError("INVALID_CATEGORY", "category_id", "Category not found")
	}
	return err
}
