package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hugh/buddy-tracker/internal/api/dto"
)

const (
	csrfCookieName  = "csrf_token"
	CSRFHeaderName  = "X-CSRF-Token"
	csrfTokenExpiry = 24 * time.Hour
)

type CSRFConfig struct {
	// Secret keys the token derivation. An empty secret is replaced with a
	// random one, which invalidates issued tokens on restart.
	Secret string
	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie  string
	AllowedOrigins []string
}

// CSRF protects cookie-authenticated mutations. Safe requests that carry a
// session cookie get the matching token in the X-CSRF-Token response header
// and a readable csrf_token cookie. Unsafe requests are refused when their
// Origin is not allowed, or when they ride on the session cookie without
// echoing the token in the X-CSRF-Token header. Bearer-authenticated requests
// skip the token check.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("csrf: generating secret: " + err.Error())
		}
	}

	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	anyOrigin := false
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			anyOrigin = true
			continue
		}
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionCookie(r, cfg.SessionCookie)

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				if session != "" {
					issueCSRFToken(w, r, csrfToken(secret, session))
				}
				next.ServeHTTP(w, r)
				return
			}

			if origin := r.Header.Get("Origin"); origin != "" && !anyOrigin && !originAllowed(r, origin, allowed) {
				csrfRejected(w, "Cross-origin request refused")
				return
			}

			if r.Header.Get("Authorization") != "" || session == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(CSRFHeaderName)
			if provided == "" {
				csrfRejected(w, "CSRF token missing")
				return
			}
			if !hmac.Equal([]byte(provided), []byte(csrfToken(secret, session))) {
				csrfRejected(w, "Invalid CSRF token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token a request carrying the given session cookie
// value must echo on mutations.
func CSRFToken(secret, session string) string {
	return csrfToken([]byte(secret), session)
}

func csrfToken(secret []byte, session string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("csrf:"))
	mac.Write([]byte(session))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func issueCSRFToken(w http.ResponseWriter, r *http.Request, token string) {
	w.Header().Set(CSRFHeaderName, token)

	if c, err := r.Cookie(csrfCookieName); err == nil && c.Value == token {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // read by the browser client
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(csrfTokenExpiry.Seconds()),
	})
}

func sessionCookie(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// originAllowed accepts configured origins and the server's own origin.
func originAllowed(r *http.Request, origin string, allowed map[string]bool) bool {
	origin = strings.ToLower(strings.TrimRight(origin, "/"))
	if allowed[origin] {
		return true
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return origin == strings.ToLower(scheme+"://"+r.Host)
}

func csrfRejected(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error: msg,
		Code:  dto.CodeForbidden,
	})
}
