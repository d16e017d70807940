package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hugh/buddy-tracker/internal/auth"
)

type contextKey string

const (
	ClaimsKey contextKey = "session_claims"
	TokenKey  contextKey = "session_token"
)

// SessionAuthenticator validates a raw session token.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Session attaches the caller's claims to the request context when a valid,
// unrevoked token is present. Requests without one pass through anonymously;
// operations decide for themselves whether a caller is required.
func Session(authenticator SessionAuthenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	// 1. Authorization header (API clients)
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}

	// 2. Session cookie (browser)
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests.
func GetUserID(ctx context.Context) uint {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}
