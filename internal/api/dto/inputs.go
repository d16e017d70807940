package dto

import (
	"github.com/hugh/buddy-tracker/internal/api/validation"
)

// Empty is the input of operations that take no arguments.
type Empty struct{}

type IDInput struct {
	ID uint `json:"id" validate:"gt=0"`
}

type AssociationIDInput struct {
	AssociationID uint `json:"associationId" validate:"gt=0"`
}

type MeetingIDInput struct {
	MeetingID uint `json:"meetingId" validate:"gt=0"`
}

type TaskIDInput struct {
	TaskID uint `json:"taskId" validate:"gt=0"`
}

// Sanitizer is implemented by inputs that carry free text.
type Sanitizer interface {
	Sanitize()
}

func sanitize(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = validation.SanitizeString(*f)
		}
	}
}
