package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/application/identity"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, token refresh, logout and store bootstrap
type AuthHandler struct {
	BaseHandler
	authService  *identity.AuthService
	storeService *identity.StoreService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, storeService *identity.StoreService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		storeService: storeService,
	}
}

// Login authenticates a user by email and password.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair.
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the access token of the request.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateStore registers a store together with its first administrator.
// POST /stores
func (h *AuthHandler) CreateStore(c *gin.Context) {
	var req identity.CreateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()

	result, err := h.storeService.CreateStoreWithAdmin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// CurrentStore returns the store of the token.
// GET /store
func (h *AuthHandler) CurrentStore(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	store, err := h.storeService.GetStore(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}
