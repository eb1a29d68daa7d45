package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/infrastructure/auth"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates an access token, rejecting revoked ones
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Validator TokenValidator
	// SkipPaths are full paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuthMiddleware authenticates the bearer token and puts the store and
// user of its claims in the gin context and the request context
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortAuth(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		token, found := strings.CutPrefix(header, BearerPrefix)
		if !found || token == "" {
			abortAuth(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, cfg, err, "Token validation failed")
			return
		}
		if _, err := claims.StoreUUID(); err != nil {
			abortAuth(c, cfg, auth.ErrMissingStoreID, "Token has no store")
			return
		}
		if _, err := claims.UserUUID(); err != nil {
			abortAuth(c, cfg, auth.ErrMissingUserID, "Token has no user")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(logger.GinStoreIDKey, claims.StoreID)
		c.Set(logger.GinUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithIdentity(c.Request.Context(), claims.StoreID, claims.UserID))
		c.Next()
	}
}

func abortAuth(c *gin.Context, cfg JWTMiddlewareConfig, err error, reason string) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingStoreID), errors.Is(err, auth.ErrMissingUserID):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	status := http.StatusUnauthorized
	if code == dto.ErrCodeUnauthorized && err != nil {
		// the revocation list could not be read
		cfg.Logger.Error("token check failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
	} else {
		cfg.Logger.Debug("authentication rejected",
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// RequireRoles rejects requests whose token role is not in roles. Services
// still re-check the stored user, the token role only gates routes early.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Your role cannot perform this action", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetStoreID returns the store of the authenticated request
func GetStoreID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.StoreUUID()
	return id, err == nil
}

// GetUserID returns the user of the authenticated request
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.UserUUID()
	return id, err == nil
}
