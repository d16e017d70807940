package repository

import (
	"context"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

type NewHirePatch struct {
	Nickname  *string
	Team      *string
	Level     *string
	Status    *models.NewHireStatus
	StartDate Nullable[time.Time]
}

func (p NewHirePatch) changes() map[string]interface{} {
	c := map[string]interface{}{}
	setIf(c, "nickname", p.Nickname)
	setIf(c, "team", p.Team)
	setIf(c, "level", p.Level)
	setIf(c, "status", p.Status)
	p.StartDate.apply(c, "start_date")
	return c
}

type NewHireRepository struct {
	t table[models.NewHire]
}

func (r *NewHireRepository) List(ctx context.Context) ([]models.NewHire, error) {
	return r.t.list(ctx, nil)
}

func (r *NewHireRepository) GetByID(ctx context.Context, id uint) (*models.NewHire, error) {
	return r.t.get(ctx, id)
}

func (r *NewHireRepository) GetByUserID(ctx context.Context, userID uint) (*models.NewHire, error) {
	return r.t.first(ctx, where("user_id = ?", userID))
}

func (r *NewHireRepository) Create(ctx context.Context, n *models.NewHire) error {
	if n.Status == "" {
		n.Status = models.NewHireStatusOnboarding
	}
	return r.t.create(ctx, n)
}

func (r *NewHireRepository) Update(ctx context.Context, id uint, p NewHirePatch) (*models.NewHire, error) {
	return r.t.update(ctx, id, p.changes())
}

func (r *NewHireRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}

func (r *NewHireRepository) Count(ctx context.Context) int64 {
	return r.t.count(ctx, nil)
}
