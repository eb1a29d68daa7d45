package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/shared"
)

// CreateStoreRequest bootstraps a store and its first administrator
type CreateStoreRequest struct {
	StoreName     string `json:"store_name" binding:"required,min=1,max=120"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=6"`
	IP            string `json:"-"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStoreResponse converts a domain store
func ToStoreResponse(s *identity.Store) *StoreResponse {
	return &StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Timezone:  s.Timezone,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

// CreateStoreResult is the new store with its administrator
type CreateStoreResult struct {
	Store *StoreResponse `json:"store"`
	Admin *UserResponse  `json:"admin"`
}

// CreateUserRequest represents a request to add a user to a store
type CreateUserRequest struct {
	StoreID  uuid.UUID    `json:"-"`
	Name     string       `json:"name" binding:"required,min=1,max=120"`
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,min=6"`
	Role     string       `json:"role" binding:"required,oneof=admin gerente estoquista operador"`
	Actor    shared.Actor `json:"-"`
}

// UpdateUserRequest changes a user; nil fields are left unchanged
type UpdateUserRequest struct {
	StoreID     uuid.UUID    `json:"-"`
	UserID      uuid.UUID    `json:"-"`
	Name        *string      `json:"name" binding:"omitempty,min=1,max=120"`
	Role        *string      `json:"role" binding:"omitempty,oneof=admin gerente estoquista operador"`
	Active      *bool        `json:"active"`
	NewPassword *string      `json:"new_password" binding:"omitempty,min=6"`
	Actor       shared.Actor `json:"-"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	StoreID     uuid.UUID  `json:"store_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		StoreID:     u.StoreID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshRequest exchanges a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	User                  *UserResponse `json:"user"`
}
