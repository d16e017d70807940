package repository

import (
	"context"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

type AssociationPatch struct {
	Status  *models.AssociationStatus
	EndDate Nullable[time.Time]
}

func (p AssociationPatch) changes() map[string]interface{} {
	c := map[string]interface{}{}
	setIf(c, "status", p.Status)
	p.EndDate.apply(c, "end_date")
	return c
}

type AssociationRepository struct {
	t table[models.Association]
}

func (r *AssociationRepository) List(ctx context.Context) ([]models.Association, error) {
	return r.t.list(ctx, nil)
}

func (r *AssociationRepository) GetByID(ctx context.Context, id uint) (*models.Association, error) {
	return r.t.get(ctx, id)
}

func (r *AssociationRepository) ListByBuddyID(ctx context.Context, buddyID uint) ([]models.Association, error) {
	return r.t.list(ctx, where("buddy_id = ?", buddyID))
}

func (r *AssociationRepository) ListByNewHireID(ctx context.Context, newHireID uint) ([]models.Association, error) {
	return r.t.list(ctx, where("new_hire_id = ?", newHireID))
}

func (r *AssociationRepository) Create(ctx context.Context, a *models.Association) error {
	if a.Status == "" {
		a.Status = models.AssociationStatusActive
	}
	return r.t.create(ctx, a)
}

func (r *AssociationRepository) Update(ctx context.Context, id uint, p AssociationPatch) (*models.Association, error) {
	return r.t.update(ctx, id, p.changes())
}

func (r *AssociationRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}

func (r *AssociationRepository) CountByStatus(ctx context.Context, status models.AssociationStatus) int64 {
	return r.t.count(ctx, where("status = ?", status))
}
