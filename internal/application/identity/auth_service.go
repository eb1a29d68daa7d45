package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	scope      unitofwork.TransactionScope
	jwtService *auth.JWTService
	revoked    auth.RevocationList
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(scope unitofwork.TransactionScope, jwtService *auth.JWTService, revoked auth.RevocationList, logger *zap.Logger) *AuthService {
	return &AuthService{
		scope:      scope,
		jwtService: jwtService,
		revoked:    revoked,
		logger:     logger,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Login authenticates a user by email and password and returns tokens.
// Unknown emails, wrong passwords and disabled users all fail the same way.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var user *identity.User
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		user, err = repos.Users().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		if errors.Is(err, shared.ErrNotFound) {
			return errInvalidCredentials
		}
		if err != nil {
			return err
		}
		if user.Deleted || !user.Active || !user.VerifyPassword(req.Password) {
			return errInvalidCredentials
		}
		user.RecordLogin()
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, user.StoreID, "User", unitofwork.IDRef(user.ID), audit.ActionLogin,
			nil, shared.Actor{UserID: user.ID, IP: req.IP})
	})
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			s.logger.Warn("login rejected", zap.String("email", req.Email), zap.String("ip", req.IP))
		}
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		StoreID: user.StoreID,
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role.String(),
	})
	if err != nil {
		return nil, shared.WrapDomainError(shared.ErrInternal.Code, "Failed to issue tokens", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("store_id", user.StoreID.String()))
	return toLoginResult(pair, user), nil
}

// Refresh issues a new token pair for a still-active user
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage("Invalid refresh token")
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}
	storeID, err := claims.StoreUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage("Invalid refresh token")
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage("Invalid refresh token")
	}

	var user *identity.User
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		user, err = repos.Users().FindByIDForStore(ctx, storeID, userID)
		if err != nil {
			return err
		}
		if user.Deleted || !user.Active {
			return shared.ErrUnauthorized.WithMessage("User is invalid or inactive")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Email, user.Role.String())
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage(err.Error())
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}
	return toLoginResult(pair, user), nil
}

// Logout revokes an access token until it expires
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return shared.WrapDomainError(shared.ErrInternal.Code, "Failed to revoke token", err)
	}
	return nil
}

// ValidateAccessToken parses an access token and rejects revoked ones
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) ensureNotRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return shared.WrapDomainError(shared.ErrInternal.Code, "Failed to check token", err)
	}
	if revoked {
		return auth.ErrTokenRevoked
	}
	return nil
}

func toLoginResult(pair *auth.TokenPair, user *identity.User) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}
}
