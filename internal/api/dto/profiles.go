package dto

import (
	"github.com/hugh/buddy-tracker/internal/api/validation"
)

type CreateBuddyRequest struct {
	UserID   uint    `json:"userId" validate:"gt=0"`
	Nickname *string `json:"nickname,omitempty" validate:"omitnil,max=100"`
	Team     *string `json:"team,omitempty" validate:"omitnil,max=100"`
	Level    *string `json:"level,omitempty" validate:"omitnil,max=50"`
	Status   *string `json:"status,omitempty" validate:"omitnil,oneof=available unavailable inactive"`
}

func (r *CreateBuddyRequest) Sanitize() {
	sanitize(r.Nickname, r.Team, r.Level)
}

type UpdateBuddyRequest struct {
	ID       uint    `json:"id" validate:"gt=0"`
	Nickname *string `json:"nickname,omitempty" validate:"omitnil,max=100"`
	Team     *string `json:"team,omitempty" validate:"omitnil,max=100"`
	Level    *string `json:"level,omitempty" validate:"omitnil,max=50"`
	Status   *string `json:"status,omitempty" validate:"omitnil,oneof=available unavailable inactive"`
}

func (r *UpdateBuddyRequest) Sanitize() {
	sanitize(r.Nickname, r.Team, r.Level)
}

type CreateNewHireRequest struct {
	UserID    uint             `json:"userId" validate:"gt=0"`
	Nickname  *string          `json:"nickname,omitempty" validate:"omitnil,max=100"`
	Team      *string          `json:"team,omitempty" validate:"omitnil,max=100"`
	Level     *string          `json:"level,omitempty" validate:"omitnil,max=50"`
	Status    *string          `json:"status,omitempty" validate:"omitnil,oneof=onboarding active completed inactive"`
	StartDate *validation.Date `json:"startDate,omitempty"`
}

func (r *CreateNewHireRequest) Sanitize() {
	sanitize(r.Nickname, r.Team, r.Level)
}

type UpdateNewHireRequest struct {
	ID        uint                    `json:"id" validate:"gt=0"`
	Nickname  *string                 `json:"nickname,omitempty" validate:"omitnil,max=100"`
	Team      *string                 `json:"team,omitempty" validate:"omitnil,max=100"`
	Level     *string                 `json:"level,omitempty" validate:"omitnil,max=50"`
	Status    *string                 `json:"status,omitempty" validate:"omitnil,oneof=onboarding active completed inactive"`
	StartDate validation.NullableDate `json:"startDate"`
}

func (r *UpdateNewHireRequest) Sanitize() {
	sanitize(r.Nickname, r.Team, r.Level)
}

type UpdateRoleRequest struct {
	ID   uint   `json:"id" validate:"gt=0"`
	Role string `json:"role" validate:"required,oneof=admin buddy newHire user"`
}
