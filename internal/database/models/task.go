package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "inProgress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOverdue:
		return true
	}
	return false
}

type Task struct {
	Base
	AssociationID uint       `gorm:"index;not null" json:"associationId"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	UsefulLink    string     `gorm:"size:500" json:"usefulLink"`
	Status        TaskStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	DueDate       *time.Time `gorm:"index" json:"dueDate"`

	Association *Association `gorm:"foreignKey:AssociationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskAssignment records a user responsible for a task.
type TaskAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"taskId"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Task *Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}
