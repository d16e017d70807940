package dto

import (
	"github.com/hugh/buddy-tracker/internal/api/validation"
)

type CreateAssociationRequest struct {
	BuddyID   uint            `json:"buddyId" validate:"gt=0"`
	NewHireID uint            `json:"newHireId" validate:"gt=0"`
	StartDate validation.Date `json:"startDate" validate:"required"`
}

type UpdateAssociationRequest struct {
	ID      uint                    `json:"id" validate:"gt=0"`
	Status  *string                 `json:"status,omitempty" validate:"omitnil,oneof=active completed paused inactive"`
	EndDate validation.NullableDate `json:"endDate"`
}

type CreateTaskRequest struct {
	AssociationID uint             `json:"associationId" validate:"gt=0"`
	Title         string           `json:"title" validate:"required,max=255"`
	Description   *string          `json:"description,omitempty"`
	UsefulLink    *string          `json:"usefulLink,omitempty" validate:"omitnil,max=500"`
	Status        *string          `json:"status,omitempty" validate:"omitnil,oneof=pending inProgress completed overdue"`
	DueDate       *validation.Date `json:"dueDate,omitempty"`
	AssigneeIDs   []uint           `json:"assigneeIds,omitempty" validate:"omitnil,max=50,dive,gt=0"`
}

func (r *CreateTaskRequest) Sanitize() {
	sanitize(&r.Title, r.Description, r.UsefulLink)
}

type UpdateTaskRequest struct {
	ID          uint                    `json:"id" validate:"gt=0"`
	Title       *string                 `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string                 `json:"description,omitempty"`
	UsefulLink  *string                 `json:"usefulLink,omitempty" validate:"omitnil,max=500"`
	Status      *string                 `json:"status,omitempty" validate:"omitnil,oneof=pending inProgress completed overdue"`
	DueDate     validation.NullableDate `json:"dueDate"`
	AssigneeIDs *[]uint                 `json:"assigneeIds,omitempty" validate:"omitnil,max=50,dive,gt=0"`
}

func (r *UpdateTaskRequest) Sanitize() {
	sanitize(r.Title, r.Description, r.UsefulLink)
}

type CreateMeetingRequest struct {
	AssociationID uint            `json:"associationId" validate:"gt=0"`
	Title         *string         `json:"title,omitempty" validate:"omitnil,max=255"`
	ScheduledAt   validation.Date `json:"scheduledAt" validate:"required"`
}

func (r *CreateMeetingRequest) Sanitize() {
	sanitize(r.Title)
}

type UpdateMeetingRequest struct {
	ID          uint                    `json:"id" validate:"gt=0"`
	Title       *string                 `json:"title,omitempty" validate:"omitnil,max=255"`
	ScheduledAt *validation.Date        `json:"scheduledAt,omitempty"`
	CompletedAt validation.NullableDate `json:"completedAt"`
}

func (r *UpdateMeetingRequest) Sanitize() {
	sanitize(r.Title)
}

type CreateMeetingNoteRequest struct {
	MeetingID uint   `json:"meetingId" validate:"gt=0"`
	Content   string `json:"content" validate:"required"`
}

func (r *CreateMeetingNoteRequest) Sanitize() {
	sanitize(&r.Content)
}

type UpdateMeetingNoteRequest struct {
	ID      uint    `json:"id" validate:"gt=0"`
	Content *string `json:"content,omitempty"`
}

func (r *UpdateMeetingNoteRequest) Sanitize() {
	sanitize(r.Content)
}
