package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{StoreID: uuid.New(), UserID: uuid.New(), Email: "caixa@loja.com", Role: "operador"}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	storeID, err := claims.StoreUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.StoreID, storeID)
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, userID)
	assert.Equal(t, "operador", claims.Role)
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("refresh token used as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "test-issuer",
		})
		p, err := expired.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)
		_, err = expired.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "another-secret-key-at-least-32-ch",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	next, err := svc.RefreshTokenPair(pair.RefreshToken, "caixa@loja.com", "gerente")
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "gerente", claims.Role)

	refreshClaims, err := svc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)

	last, err := svc.RefreshTokenPair(next.RefreshToken, "caixa@loja.com", "gerente")
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(last.RefreshToken, "caixa@loja.com", "gerente")
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestInMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewInMemoryRevocationList()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))
	require.NoError(t, list.Revoke(ctx, "jti-2", time.Nanosecond))
	require.NoError(t, list.Revoke(ctx, "jti-3", 0))
	time.Sleep(time.Millisecond)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	for _, jti := range []string{"jti-2", "jti-3", "unknown"} {
		revoked, err := list.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.False(t, revoked, jti)
	}
}
