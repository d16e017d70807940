package repository

import (
	"context"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

type BuddyPatch struct {
	Nickname *string
	Team     *string
	Level    *string
	Status   *models.BuddyStatus
}

func (p BuddyPatch) changes() map[string]interface{} {
	c := map[string]interface{}{}
	setIf(c, "nickname", p.Nickname)
	setIf(c, "team", p.Team)
	setIf(c, "level", p.Level)
	setIf(c, "status", p.Status)
	return c
}

type BuddyRepository struct {
	t table[models.Buddy]
}

func (r *BuddyRepository) List(ctx context.Context) ([]models.Buddy, error) {
	return r.t.list(ctx, nil)
}

func (r *BuddyRepository) GetByID(ctx context.Context, id uint) (*models.Buddy, error) {
	return r.t.get(ctx, id)
}

func (r *BuddyRepository) GetByUserID(ctx context.Context, userID uint) (*models.Buddy, error) {
	return r.t.first(ctx, where("user_id = ?", userID))
}

func (r *BuddyRepository) Create(ctx context.Context, b *models.Buddy) error {
	if b.Status == "" {
		b.Status = models.BuddyStatusAvailable
	}
	return r.t.create(ctx, b)
}

func (r *BuddyRepository) Update(ctx context.Context, id uint, p BuddyPatch) (*models.Buddy, error) {
	return r.t.update(ctx, id, p.changes())
}

func (r *BuddyRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}

func (r *BuddyRepository) Count(ctx context.Context) int64 {
	return r.t.count(ctx, nil)
}
