package models

type BuddyStatus string

const (
	BuddyStatusAvailable   BuddyStatus = "available"
	BuddyStatusUnavailable BuddyStatus = "unavailable"
	BuddyStatusInactive    BuddyStatus = "inactive"
)

func (s BuddyStatus) Valid() bool {
	switch s {
	case BuddyStatusAvailable, BuddyStatusUnavailable, BuddyStatusInactive:
		return true
	}
	return false
}

// Buddy is the mentor profile of a user.
type Buddy struct {
	Base
	UserID   uint        `gorm:"uniqueIndex;not null" json:"userId"`
	Nickname string      `gorm:"size:100" json:"nickname"`
	Team     string      `gorm:"size:100" json:"team"`
	Level    string      `gorm:"size:50" json:"level"` // junior, mid, senior, lead, manager
	Status   BuddyStatus `gorm:"size:16;not null;default:'available';index" json:"status"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Buddy) TableName() string {
	return "buddies"
}
