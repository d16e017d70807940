package auth_test

import (
	"testing"
	"time"

	"github.com/hugh/buddy-tracker/internal/auth"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: 42}, ExternalID: "sub-42", Role: models.RoleBuddy}
}

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	user := testUser()

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "sub-42", claims.ExternalID)
		assert.Equal(t, "buddy-tracker", claims.Issuer)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("each token gets its own id", func(t *testing.T) {
		first, err := jwtService.GenerateToken(user)
		require.NoError(t, err)
		second, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		c1, err := jwtService.ValidateToken(first)
		require.NoError(t, err)
		c2, err := jwtService.ValidateToken(second)
		require.NoError(t, err)
		assert.NotEmpty(t, c1.ID)
		assert.NotEqual(t, c1.ID, c2.ID)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	user := testUser()

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond)

		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrExpiredToken, err)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token + "tampered")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		token, err := auth.NewJWTService("secret-1", 24*time.Hour).GenerateToken(user)
		require.NoError(t, err)

		_, err = auth.NewJWTService("secret-2", 24*time.Hour).ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := auth.NewJWTService("test-secret", time.Hour).ValidateToken("not-a-valid-jwt")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := auth.NewJWTService("test-secret", time.Hour).ValidateToken("")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})
}
