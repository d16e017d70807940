package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hugh/buddy-tracker/internal/api/validation"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/repository"
)

var ErrMissingIdentity = errors.New("identity has no subject")

// Identity is what the identity provider tells us about a signed-in person.
type Identity struct {
	ExternalID  string
	Name        string
	Email       string
	LoginMethod string
}

type SignInResult struct {
	Token string
	User  *models.User
}

type Service struct {
	users           *repository.UserRepository
	jwt             *JWTService
	revocations     RevocationList
	ownerExternalID string
	logger          *slog.Logger
}

type ServiceOptions struct {
	// Revocations may be nil, in which case logout only clears the cookie.
	Revocations     RevocationList
	OwnerExternalID string
	Logger          *slog.Logger
}

func NewService(users *repository.UserRepository, jwt *JWTService, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		users:           users,
		jwt:             jwt,
		revocations:     opts.Revocations,
		ownerExternalID: opts.OwnerExternalID,
		logger:          logger,
	}
}

// SignIn upserts the user behind id and issues a session token. The
// configured owner is made admin every time they sign in.
func (s *Service) SignIn(ctx context.Context, id Identity) (*SignInResult, error) {
	externalID := strings.TrimSpace(id.ExternalID)
	if externalID == "" {
		return nil, ErrMissingIdentity
	}
	if len(externalID) > 64 {
		return nil, fmt.Errorf("external id longer than 64 bytes: %w", ErrMissingIdentity)
	}

	email := strings.TrimSpace(id.Email)
	if email != "" && !validation.IsValidEmail(email) {
		s.logger.Warn("ignoring malformed email from identity provider", "external_id", externalID)
		email = ""
	}

	in := repository.UpsertUser{
		ExternalID:  externalID,
		Name:        validation.TruncateString(validation.SanitizeString(id.Name), 255),
		Email:       email,
		LoginMethod: validation.TruncateString(id.LoginMethod, 64),
		SignedInAt:  time.Now().UTC(),
	}
	if s.ownerExternalID != "" && externalID == s.ownerExternalID {
		in.Role = models.RoleAdmin
	}

	user, err := s.users.Upsert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user signed in", "user_id", user.ID, "role", user.Role)
	return &SignInResult{Token: token, User: user}, nil
}

// Authenticate validates a session token and rejects revoked sessions.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if s.revocations == nil || claims.ID == "" {
		return claims, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Without the revocation store a token can only be judged on its signature.
		s.logger.Warn("revocation check failed", "error", err)
		return claims, nil
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// ResolveUser loads the user a session belongs to. A session whose user no
// longer exists resolves to repository.ErrNotFound.
func (s *Service) ResolveUser(ctx context.Context, claims *Claims) (*models.User, error) {
	return s.users.GetByID(ctx, claims.UserID)
}

// Logout revokes the session until its natural expiry. It is a no-op when no
// revocation store is configured or claims is nil.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.revocations == nil || claims == nil || claims.ID == "" {
		return nil
	}
	until := time.Now().Add(s.jwt.Expiry())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revocations.Revoke(ctx, claims.ID, until)
}
