package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/auth"
)

const stateCookieName = "oauth_state"

type SignInService interface {
	SignIn(ctx context.Context, id auth.Identity) (*auth.SignInResult, error)
}

type OAuthHandler struct {
	provider auth.IdentityProvider
	signIn   SignInService
	cookie   CookieConfig
	logger   *slog.Logger
}

func NewOAuthHandler(provider auth.IdentityProvider, signIn SignInService, cookie CookieConfig, logger *slog.Logger) *OAuthHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OAuthHandler{provider: provider, signIn: signIn, cookie: cookie, logger: logger}
}

// Login sends the browser to the identity provider with a fresh state value.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the code exchange, signs the user in and sets the
// session cookie.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, dto.CodeBadRequest, "code and state are required")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		writeError(w, http.StatusBadRequest, dto.CodeBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})

	identity, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "oauth exchange failed", "error", err)
		writeError(w, http.StatusInternalServerError, dto.CodeInternal, "OAuth callback failed")
		return
	}

	result, err := h.signIn.SignIn(r.Context(), *identity)
	if err != nil {
		if errors.Is(err, auth.ErrMissingIdentity) {
			writeError(w, http.StatusBadRequest, dto.CodeBadRequest, "External id missing from user info")
			return
		}
		h.logger.ErrorContext(r.Context(), "sign in failed", "error", err)
		writeError(w, http.StatusInternalServerError, dto.CodeInternal, "OAuth callback failed")
		return
	}

	h.cookie.set(w, r, result.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}
