package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/api/middleware"
	"github.com/hugh/buddy-tracker/internal/api/rpc"
	"github.com/hugh/buddy-tracker/internal/auth"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/repository"
)

const maxInputBytes = 1 << 20

// SessionService resolves and ends the sessions the session middleware
// authenticated.
type SessionService interface {
	ResolveUser(ctx context.Context, claims *auth.Claims) (*models.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type RPCHandler struct {
	dispatcher *rpc.Dispatcher
	sessions   SessionService
	cookie     CookieConfig
	logger     *slog.Logger
}

func NewRPCHandler(dispatcher *rpc.Dispatcher, sessions SessionService, cookie CookieConfig, logger *slog.Logger) *RPCHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RPCHandler{dispatcher: dispatcher, sessions: sessions, cookie: cookie, logger: logger}
}

// Call serves /rpc/{operation}. Queries accept GET with the input in the
// "input" query parameter; every operation accepts POST with a JSON body.
func (h *RPCHandler) Call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "operation")

	var raw json.RawMessage
	switch r.Method {
	case http.MethodGet:
		if op, ok := h.dispatcher.Lookup(name); ok && op.Kind != rpc.Query {
			writeError(w, http.StatusMethodNotAllowed, dto.CodeBadRequest, "Mutations must use POST")
			return
		}
		if in := r.URL.Query().Get("input"); in != "" {
			raw = json.RawMessage(in)
		}
	case http.MethodPost:
		if !isJSON(r) {
			writeError(w, http.StatusUnsupportedMediaType, dto.CodeBadRequest, "Content-Type must be application/json")
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, dto.CodeBadRequest, "Request body too large")
			return
		}
		raw = body
	default:
		writeError(w, http.StatusMethodNotAllowed, dto.CodeBadRequest, "Method not allowed")
		return
	}

	claims := middleware.GetClaims(r.Context())
	req := &rpc.Request{
		User:    h.resolveUser(r.Context(), claims),
		Session: &httpSession{w: w, r: r, claims: claims, h: h},
	}

	result, err := h.dispatcher.Call(r.Context(), req, name, raw)
	if err != nil {
		h.writeRPCError(w, r, rpc.AsError(err))
		return
	}
	writeJSON(w, http.StatusOK, dto.ResultResponse{Result: result})
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// resolveUser turns session claims into a user. Any failure leaves the
// caller anonymous.
func (h *RPCHandler) resolveUser(ctx context.Context, claims *auth.Claims) *models.User {
	if claims == nil || h.sessions == nil {
		return nil
	}
	user, err := h.sessions.ResolveUser(ctx, claims)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.WarnContext(ctx, "resolving session user", "user_id", claims.UserID, "error", err)
		}
		return nil
	}
	return user
}

func (h *RPCHandler) writeRPCError(w http.ResponseWriter, r *http.Request, err *rpc.Error) {
	status := StatusFor(err.Code)
	if status == http.StatusInternalServerError && err.Err != nil {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.Scope().SetRequest(r)
		hub.CaptureException(err.Err)
	}
	writeJSON(w, status, dto.ErrorResponse{Error: err.Message, Code: err.Code, Details: err.Details})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case dto.CodeBadRequest:
		return http.StatusBadRequest
	case dto.CodeUnauthorized:
		return http.StatusUnauthorized
	case dto.CodeForbidden:
		return http.StatusForbidden
	case dto.CodeNotFound:
		return http.StatusNotFound
	case dto.CodeConflict:
		return http.StatusConflict
	case dto.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case dto.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// httpSession ends the caller's session by revoking its token and expiring
// the cookie.
type httpSession struct {
	w      http.ResponseWriter
	r      *http.Request
	claims *auth.Claims
	h      *RPCHandler
}

func (s *httpSession) ClearCredential() {
	if s.claims != nil && s.h.sessions != nil {
		if err := s.h.sessions.Logout(s.r.Context(), s.claims); err != nil {
			s.h.logger.WarnContext(s.r.Context(), "revoking session", "user_id", s.claims.UserID, "error", err)
		}
	}
	s.h.cookie.clear(s.w)
}
