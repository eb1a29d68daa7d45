package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(scope unitofwork.TransactionScope, logger *zap.Logger) *CategoryService {
	return &CategoryService{scope: scope, logger: logger}
}

// Create creates a new category. A duplicate name in the store is rejected
// by the unique index and surfaces as ALREADY_EXISTS.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.StoreID, req.Name, req.DefaultMarkup, req.Actor.Ref())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.Categories().Save(ctx, category); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Category", unitofwork.IDRef(category.ID), audit.ActionCreated,
			audit.Payload{"name": category.Name, "default_markup": category.DefaultMarkup.String()}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("category created", zap.String("store_id", req.StoreID.String()), zap.String("category_id", category.ID.String()))
	return ToCategoryResponse(category), nil
}

// List returns the store's categories
func (s *CategoryService) List(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	var categories []catalog.Category
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		categories, err = repos.Categories().FindAllForStore(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *ToCategoryResponse(&categories[i]))
	}
	return out, nil
}
