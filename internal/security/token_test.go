package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func TestTokenManager_AdminToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 30*time.Minute)

	t.Run("Round trip", func(t *testing.T) {
		token, expiresAt, err := tm.GenerateAdminToken("u1", "admin@example.com", []string{"admin"})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, TokenTypeAdmin, claims.Type)
		assert.True(t, claims.HasRole("admin"))
		assert.False(t, claims.HasRole("owner"))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, _, err := tm.GenerateAdminToken("u1", "admin@example.com", nil)
		require.NoError(t, err)

		other := NewTokenManager("another-secret-that-is-32-characters-long", time.Hour)
		_, err = other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := Claims{
			UserID: "u1",
			Type:   TokenTypeAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenManager_ServiceToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)

	token, err := tm.GenerateServiceToken("checkout")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeService, claims.Type)
	assert.Equal(t, "checkout", claims.Subject)
	assert.Empty(t, claims.UserID)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	ok, err := CheckPassword(hash, "s3cret-pass")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)
}
