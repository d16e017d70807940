package repository

import (
	"context"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

type MeetingPatch struct {
	Title       *string
	ScheduledAt *time.Time
	CompletedAt Nullable[time.Time]
}

func (p MeetingPatch) changes() map[string]interface{} {
	c := map[string]interface{}{}
	setIf(c, "title", p.Title)
	setIf(c, "scheduled_at", p.ScheduledAt)
	p.CompletedAt.apply(c, "completed_at")
	return c
}

type MeetingRepository struct {
	t table[models.Meeting]
}

func (r *MeetingRepository) ListByAssociationID(ctx context.Context, associationID uint) ([]models.Meeting, error) {
	return r.t.list(ctx, where("association_id = ?", associationID))
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uint) (*models.Meeting, error) {
	return r.t.get(ctx, id)
}

func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting) error {
	return r.t.create(ctx, m)
}

func (r *MeetingRepository) Update(ctx context.Context, id uint, p MeetingPatch) (*models.Meeting, error) {
	return r.t.update(ctx, id, p.changes())
}

func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}

type MeetingNotePatch struct {
	Content *string
}

type MeetingNoteRepository struct {
	t table[models.MeetingNote]
}

func (r *MeetingNoteRepository) ListByMeetingID(ctx context.Context, meetingID uint) ([]models.MeetingNote, error) {
	return r.t.list(ctx, where("meeting_id = ?", meetingID))
}

func (r *MeetingNoteRepository) GetByID(ctx context.Context, id uint) (*models.MeetingNote, error) {
	return r.t.get(ctx, id)
}

func (r *MeetingNoteRepository) Create(ctx context.Context, n *models.MeetingNote) error {
	return r.t.create(ctx, n)
}

func (r *MeetingNoteRepository) Update(ctx context.Context, id uint, p MeetingNotePatch) (*models.MeetingNote, error) {
	c := map[string]interface{}{}
	setIf(c, "content", p.Content)
	return r.t.update(ctx, id, c)
}

func (r *MeetingNoteRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}
