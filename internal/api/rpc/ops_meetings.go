package rpc

import (
	"context"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
)

func meetingOps() []*Operation {
	return []*Operation{
		query("meetings.listByAssociation", listMeetings),
		query("meetings.get", getMeeting),
		mutation("meetings.create", createMeeting),
		mutation("meetings.update", updateMeeting),
		mutation("meetings.delete", deleteMeeting),
	}
}

func listMeetings(ctx context.Context, c *call, in *dto.AssociationIDInput) (interface{}, error) {
	a, err := c.participantScope(ctx, in.AssociationID)
	if err != nil {
		return nil, err
	}
	return c.repos().Meetings.ListByAssociationID(ctx, a.ID)
}

func (c *call) loadMeeting(ctx context.Context, id uint) (*models.Meeting, *models.Association, error) {
	m, err := c.repos().Meetings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	a, err := c.repos().Associations.GetByID(ctx, m.AssociationID)
	if err != nil {
		return nil, nil, err
	}
	return m, a, nil
}

func (c *call) meetingInScope(ctx context.Context, id uint) (*models.Meeting, error) {
	m, a, err := c.loadMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{Association: a}); err != nil {
		return nil, err
	}
	return m, nil
}

func getMeeting(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	return c.meetingInScope(ctx, in.ID)
}

func createMeeting(ctx context.Context, c *call, in *dto.CreateMeetingRequest) (interface{}, error) {
	a, err := c.participantScope(ctx, in.AssociationID)
	if err != nil {
		return nil, err
	}

	m := &models.Meeting{
		AssociationID: a.ID,
		Title:         deref(in.Title),
		ScheduledAt:   in.ScheduledAt.Time,
	}
	if err := c.repos().Meetings.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func updateMeeting(ctx context.Context, c *call, in *dto.UpdateMeetingRequest) (interface{}, error) {
	m, err := c.meetingInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return c.repos().Meetings.Update(ctx, m.ID, repository.MeetingPatch{
		Title:       in.Title,
		ScheduledAt: in.ScheduledAt.Ptr(),
		CompletedAt: nullable(in.CompletedAt),
	})
}

func deleteMeeting(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	m, err := c.meetingInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return nil, c.repos().Meetings.Delete(ctx, m.ID)
}

func meetingNoteOps() []*Operation {
	return []*Operation{
		query("meetingNotes.listByMeeting", listMeetingNotes),
		mutation("meetingNotes.create", createMeetingNote),
		mutation("meetingNotes.update", updateMeetingNote),
		mutation("meetingNotes.delete", deleteMeetingNote),
	}
}

func listMeetingNotes(ctx context.Context, c *call, in *dto.MeetingIDInput) (interface{}, error) {
	m, err := c.meetingInScope(ctx, in.MeetingID)
	if err != nil {
		return nil, err
	}
	return c.repos().MeetingNotes.ListByMeetingID(ctx, m.ID)
}

func createMeetingNote(ctx context.Context, c *call, in *dto.CreateMeetingNoteRequest) (interface{}, error) {
	m, err := c.meetingInScope(ctx, in.MeetingID)
	if err != nil {
		return nil, err
	}

	n := &models.MeetingNote{
		MeetingID: m.ID,
		UserID:    c.user().ID,
		Content:   in.Content,
	}
	if err := c.repos().MeetingNotes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// noteInScope loads a note and checks the caller is its author and still a
// participant of the pairing the note belongs to.
func (c *call) noteInScope(ctx context.Context, id uint) (*models.MeetingNote, error) {
	n, err := c.repos().MeetingNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, a, err := c.loadMeeting(ctx, n.MeetingID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{Association: a, AuthorUserID: n.UserID}); err != nil {
		return nil, err
	}
	return n, nil
}

func updateMeetingNote(ctx context.Context, c *call, in *dto.UpdateMeetingNoteRequest) (interface{}, error) {
	n, err := c.noteInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return c.repos().MeetingNotes.Update(ctx, n.ID, repository.MeetingNotePatch{Content: in.Content})
}

func deleteMeetingNote(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	n, err := c.noteInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return nil, c.repos().MeetingNotes.Delete(ctx, n.ID)
}
