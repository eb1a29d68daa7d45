package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdminDisplayName is the name given to the administrator created with a store
const AdminDisplayName = "Administrador"

// StoreService bootstraps stores
type StoreService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(scope unitofwork.TransactionScope, logger *zap.Logger) *StoreService {
	return &StoreService{scope: scope, logger: logger}
}

// CreateStoreWithAdmin creates a store and its administrator in one transaction
func (s *StoreService) CreateStoreWithAdmin(ctx context.Context, req CreateStoreRequest) (*CreateStoreResult, error) {
	store, err := identity.NewStore(req.StoreName)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(store.ID, AdminDisplayName, req.AdminEmail, req.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.Stores().Save(ctx, store); err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, admin); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, store.ID, "Store", unitofwork.IDRef(store.ID), audit.ActionCreated,
			audit.Payload{"name": store.Name}, shared.Actor{UserID: admin.ID, IP: req.IP})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("store created", zap.String("store_id", store.ID.String()), zap.String("name", store.Name))
	return &CreateStoreResult{Store: ToStoreResponse(store), Admin: ToUserResponse(admin)}, nil
}

// EnsureStore returns the store named req.StoreName, creating it with its
// administrator when missing. Used to seed a fresh database.
func (s *StoreService) EnsureStore(ctx context.Context, req CreateStoreRequest) (*StoreResponse, bool, error) {
	var existing *identity.Store
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		existing, err = repos.Stores().FindByName(ctx, req.StoreName)
		return err
	})
	switch {
	case err == nil:
		return ToStoreResponse(existing), false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}
	res, err := s.CreateStoreWithAdmin(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return res.Store, true, nil
}

// GetStore returns a store
func (s *StoreService) GetStore(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	var store *identity.Store
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		store, err = repos.Stores().FindByID(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStoreResponse(store), nil
}
