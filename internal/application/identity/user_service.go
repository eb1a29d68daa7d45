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

// UserService manages the users of a store
type UserService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(scope unitofwork.TransactionScope, logger *zap.Logger) *UserService {
	return &UserService{scope: scope, logger: logger}
}

// Create adds a user to a store. Emails are unique across all stores.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.StoreID, req.Name, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.CreatedBy = req.Actor.Ref()

	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		_, err := repos.Users().FindByEmail(ctx, user.Email)
		switch {
		case err == nil:
			return shared.NewFieldError(shared.ErrAlreadyExists.Code, "email", "Email already registered")
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "User", unitofwork.IDRef(user.ID), audit.ActionCreated,
			audit.Payload{"email": user.Email, "role": user.Role}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("store_id", req.StoreID.String()), zap.String("user_id", user.ID.String()))
	return ToUserResponse(user), nil
}

// Update changes name, role, active flag or password of a user
func (s *UserService) Update(ctx context.Context, req UpdateUserRequest) (*UserResponse, error) {
	var user *identity.User
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		user, err = repos.Users().FindByIDForStore(ctx, req.StoreID, req.UserID)
		if err != nil {
			return err
		}
		if user.Deleted {
			return shared.ErrNotFound.WithMessage("User not found")
		}
		changes := audit.Payload{}
		if req.Name != nil {
			if err := user.Rename(*req.Name); err != nil {
				return err
			}
			changes["name"] = user.Name
		}
		if req.Role != nil {
			role := identity.Role(*req.Role)
			if !role.IsValid() {
				return shared.NewFieldError("INVALID_ROLE", "role", "Unknown role")
			}
			user.Role = role
			changes["role"] = role
		}
		if req.Active != nil {
			user.Active = *req.Active
			changes["active"] = user.Active
		}
		if req.NewPassword != nil {
			if err := user.SetPassword(*req.NewPassword); err != nil {
				return err
			}
			changes["password"] = "changed"
		}
		user.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "User", unitofwork.IDRef(user.ID), audit.ActionUpdated, changes, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List returns the store's users
func (s *UserService) List(ctx context.Context, storeID uuid.UUID, search string) ([]UserResponse, error) {
	var users []identity.User
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		users, err = repos.Users().FindAllForStore(ctx, storeID, search)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *ToUserResponse(&users[i]))
	}
	return out, nil
}

// Authorize loads the acting user and checks it holds one of roles
func (s *UserService) Authorize(ctx context.Context, storeID uuid.UUID, actor shared.Actor, roles ...identity.Role) (*identity.User, error) {
	var user *identity.User
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		user, err = LoadAuthorized(ctx, repos, storeID, actor, roles...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LoadAuthorized loads the acting user inside an open unit of work and
// checks it holds one of roles. An unknown user is unauthorized.
func LoadAuthorized(ctx context.Context, repos unitofwork.TransactionalRepositories, storeID uuid.UUID, actor shared.Actor, roles ...identity.Role) (*identity.User, error) {
	if actor.IsSystem() {
		return nil, shared.ErrUnauthorized.WithMessage("User is invalid or inactive")
	}
	user, err := repos.Users().FindByIDForStore(ctx, storeID, actor.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized.WithMessage("User is invalid or inactive")
	}
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(user, roles...); err != nil {
		return nil, err
	}
	return user, nil
}
