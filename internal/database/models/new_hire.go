package models

import "time"

type NewHireStatus string

const (
	NewHireStatusOnboarding NewHireStatus = "onboarding"
	NewHireStatusActive     NewHireStatus = "active"
	NewHireStatusCompleted  NewHireStatus = "completed"
	NewHireStatusInactive   NewHireStatus = "inactive"
)

func (s NewHireStatus) Valid() bool {
	switch s {
	case NewHireStatusOnboarding, NewHireStatusActive, NewHireStatusCompleted, NewHireStatusInactive:
		return true
	}
	return false
}

type NewHire struct {
	Base
	UserID    uint          `gorm:"uniqueIndex;not null" json:"userId"`
	Nickname  string        `gorm:"size:100" json:"nickname"`
	Team      string        `gorm:"size:100" json:"team"`
	Level     string        `gorm:"size:50" json:"level"` // intern, junior, mid, senior
	Status    NewHireStatus `gorm:"size:16;not null;default:'onboarding';index" json:"status"`
	StartDate *time.Time    `json:"startDate"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (NewHire) TableName() string {
	return "new_hires"
}
