package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/application/identity"
)

// UserHandler manages the users of a store
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create adds a user to the store of the caller
func (h *UserHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update changes name, role, password or active flag of a user
func (h *UserHandler) Update(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	userID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.UserID, req.Actor = storeID, userID, actor

	user, err := h.userService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List returns the users of the store, optionally filtered by ?search=
func (h *UserHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	users, err := h.userService.List(c.Request.Context(), storeID, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}
