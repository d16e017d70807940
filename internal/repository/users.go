package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	t table[models.User]
}

// UpsertUser carries the identity fields refreshed on every sign-in. An empty
// Role leaves an existing user's role untouched and creates new users with
// the default role.
type UpsertUser struct {
	ExternalID  string
	Name        string
	Email       string
	LoginMethod string
	Role        models.Role
	SignedInAt  time.Time
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.t.list(ctx, nil)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.t.get(ctx, id)
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.t.first(ctx, where("external_id = ?", externalID))
}

// Upsert inserts the user or refreshes the existing row with the same
// external id, then returns the stored row.
func (r *UserRepository) Upsert(ctx context.Context, in UpsertUser) (*models.User, error) {
	store := r.t.store
	if !store.Available() {
		return nil, fmt.Errorf("user upsert: %w: %w", ErrStoreUnavailable, errNoStore)
	}

	signedIn := in.SignedInAt
	if signedIn.IsZero() {
		signedIn = time.Now().UTC()
	}

	user := models.User{
		ExternalID:   in.ExternalID,
		Name:         in.Name,
		Email:        in.Email,
		LoginMethod:  in.LoginMethod,
		Role:         in.Role,
		LastSignedIn: signedIn,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	columns := []string{"name", "email", "login_method", "last_signed_in", "updated_at"}
	if in.Role != "" {
		columns = append(columns, "role")
	}

	err := store.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&user).Error
	if err != nil {
		return nil, store.writeFailed("user upsert", err)
	}

	var stored models.User
	if err := store.conn(ctx).Where("external_id = ?", in.ExternalID).Take(&stored).Error; err != nil {
		return nil, fmt.Errorf("user upsert: reload: %w: %w", ErrStoreUnavailable, err)
	}
	return &stored, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	return r.t.update(ctx, id, map[string]interface{}{"role": role})
}
