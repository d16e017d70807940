package models

import "time"

type AssociationStatus string

const (
	AssociationStatusActive    AssociationStatus = "active"
	AssociationStatusCompleted AssociationStatus = "completed"
	AssociationStatusPaused    AssociationStatus = "paused"
	AssociationStatusInactive  AssociationStatus = "inactive"
)

func (s AssociationStatus) Valid() bool {
	switch s {
	case AssociationStatusActive, AssociationStatusCompleted, AssociationStatusPaused, AssociationStatusInactive:
		return true
	}
	return false
}

// Association pairs one buddy with one new hire. Deleting either side removes
// the association and, through the tasks and meetings tables, everything below it.
type Association struct {
	Base
	BuddyID   uint              `gorm:"index;not null" json:"buddyId"`
	NewHireID uint              `gorm:"index;not null" json:"newHireId"`
	Status    AssociationStatus `gorm:"size:16;not null;default:'active';index" json:"status"`
	StartDate time.Time         `gorm:"not null" json:"startDate"`
	EndDate   *time.Time        `json:"endDate"`

	Buddy   *Buddy   `gorm:"foreignKey:BuddyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	NewHire *NewHire `gorm:"foreignKey:NewHireID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Association) TableName() string {
	return "associations"
}

// HasParticipant reports whether the given buddy or new-hire profile id is
// part of the pairing. Zero ids never match.
func (a *Association) HasParticipant(buddyID, newHireID uint) bool {
	if buddyID != 0 && a.BuddyID == buddyID {
		return true
	}
	return newHireID != 0 && a.NewHireID == newHireID
}
