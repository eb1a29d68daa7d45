package identity

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new password hashes
var PasswordCost = 12

const minPasswordLength = 6

// User is an operator account bound to one store
type User struct {
	shared.StoreAggregateRoot
	shared.Lifecycle
	Name         string     `gorm:"type:varchar(120);not null"`
	Email        string     `gorm:"type:varchar(180);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:operador;index"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(storeID uuid.UUID, name, email, password string, role Role) (*User, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_STORE", "store_id", "Store ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "User name is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewFieldError("INVALID_ROLE", "role", "Unknown role")
	}

	u := &User{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, nil),
		Lifecycle:          shared.NewLifecycle(),
		Name:               name,
		Email:              email,
		Role:               role,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Rename changes the display name
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewFieldError("INVALID_NAME", "name", "User name is required")
	}
	u.Name = name
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewFieldError("INVALID_PASSWORD", "password", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks a plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// RequireRole rejects missing, deleted or inactive users and users whose
// role is not in allowed.
func RequireRole(u *User, allowed ...Role) error {
	if u == nil || u.Deleted || !u.Active {
		return shared.ErrUnauthorized.WithMessage("User is invalid or inactive")
	}
	if !slices.Contains(allowed, u.Role) {
		return shared.ErrForbidden.WithMessage("Permission denied")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", shared.NewFieldError("INVALID_EMAIL", "email", "Invalid email")
	}
	return email, nil
}
