package auth

import (
	"context"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// RevocationList remembers session ids invalidated by logout.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IdentityProvider turns an OAuth authorization code into a signed-in identity.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Compile-time interface satisfaction checks
var (
	_ TokenService     = (*JWTService)(nil)
	_ RevocationList   = (*RedisRevocationList)(nil)
	_ IdentityProvider = (*OAuthProvider)(nil)
)
