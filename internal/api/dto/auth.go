package dto

import (
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

// UserDTO is the caller identity returned by auth.me.
type UserDTO struct {
	ID           uint        `json:"id"`
	ExternalID   string      `json:"externalId"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	LoginMethod  string      `json:"loginMethod,omitempty"`
	LastSignedIn time.Time   `json:"lastSignedIn"`
	BuddyID      *uint       `json:"buddyId"`
	NewHireID    *uint       `json:"newHireId"`
}

func NewUserDTO(u *models.User, buddyID, newHireID uint) *UserDTO {
	out := &UserDTO{
		ID:           u.ID,
		ExternalID:   u.ExternalID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		LoginMethod:  u.LoginMethod,
		LastSignedIn: u.LastSignedIn,
	}
	if buddyID != 0 {
		out.BuddyID = &buddyID
	}
	if newHireID != 0 {
		out.NewHireID = &newHireID
	}
	return out
}

type DashboardMetrics struct {
	BuddyCount         int64 `json:"buddyCount"`
	NewHireCount       int64 `json:"newHireCount"`
	ActiveAssociations int64 `json:"activeAssociations"`
	PendingTasks       int64 `json:"pendingTasks"`
}
