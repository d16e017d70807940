package models

import "time"

// Meeting is scheduled between the two participants of an association.
// A non-nil CompletedAt marks it done.
type Meeting struct {
	Base
	AssociationID uint       `gorm:"index;not null" json:"associationId"`
	Title         string     `gorm:"size:255" json:"title"`
	ScheduledAt   time.Time  `gorm:"not null" json:"scheduledAt"`
	CompletedAt   *time.Time `json:"completedAt"`

	Association *Association `gorm:"foreignKey:AssociationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) Completed() bool {
	return m.CompletedAt != nil
}

type MeetingNote struct {
	Base
	MeetingID uint   `gorm:"index;not null" json:"meetingId"`
	UserID    uint   `gorm:"index;not null" json:"userId"` // author
	Content   string `gorm:"type:text" json:"content"`

	Meeting *Meeting `gorm:"foreignKey:MeetingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (MeetingNote) TableName() string {
	return "meeting_notes"
}
