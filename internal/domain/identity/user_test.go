package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	storeID := uuid.New()

	t.Run("normalizes email and hashes password", func(t *testing.T) {
		u, err := NewUser(storeID, " Ana ", " Ana@Loja.COM ", "segredo1", RoleOperator)
		require.NoError(t, err)
		assert.Equal(t, "Ana", u.Name)
		assert.Equal(t, "ana@loja.com", u.Email)
		assert.NotEqual(t, "segredo1", u.PasswordHash)
		assert.True(t, u.VerifyPassword("segredo1"))
		assert.False(t, u.VerifyPassword("errada"))
		assert.True(t, u.Active)
		assert.False(t, u.Deleted)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(storeID, "Ana", "ana@loja.com", "123", RoleOperator)
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "password", de.Field)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(storeID, "Ana", "ana.loja.com", "segredo1", RoleOperator)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(storeID, "Ana", "ana@loja.com", "segredo1", Role("caixa"))
		assert.Error(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	u, err := NewUser(uuid.New(), "Bia", "bia@loja.com", "segredo1", RoleStockClerk)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(u *User)
		allowed []Role
		wantErr error
	}{
		{"allowed role", func(u *User) {}, StockRoles, nil},
		{"role not allowed", func(u *User) {}, CheckoutRoles, shared.ErrForbidden},
		{"inactive user", func(u *User) { u.Active = false }, StockRoles, shared.ErrUnauthorized},
		{"deleted user", func(u *User) { u.Deleted = true }, StockRoles, shared.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clone := *u
			tt.mutate(&clone)
			err := RequireRole(&clone, tt.allowed...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("nil user", func(t *testing.T) {
		assert.ErrorIs(t, RequireRole(nil, RoleAdmin), shared.ErrUnauthorized)
	})
}
