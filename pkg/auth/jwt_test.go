package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 30*time.Minute)

	token, err := manager.GenerateToken("user-123", "margaret", "margaret@example.com", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "margaret", claims.Username)
	assert.Equal(t, "margaret@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "margaret@example.com", claims.Subject)
}

func TestValidateTokenAdminFlag(t *testing.T) {
	manager := NewJWTManager("test-secret", 30*time.Minute)

	token, err := manager.GenerateToken("admin-1", "admin", "admin@example.com", true)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTManager("issuer-secret", 30*time.Minute)
	verifier := NewJWTManager("other-secret", 30*time.Minute)

	token, err := issuer.GenerateToken("user-123", "margaret", "margaret@example.com", false)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken("user-123", "margaret", "margaret@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 30*time.Minute)

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
