package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleBuddy   Role = "buddy"
	RoleNewHire Role = "newHire"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBuddy, RoleNewHire, RoleUser:
		return true
	}
	return false
}

// User is the login identity. Rows are upserted on every sign-in, keyed by
// the identity provider's subject (ExternalID).
type User struct {
	Base
	ExternalID   string    `gorm:"size:64;uniqueIndex;not null" json:"externalId"`
	Name         string    `json:"name"`
	Email        string    `gorm:"size:320" json:"email"`
	LoginMethod  string    `gorm:"size:64" json:"loginMethod,omitempty"`
	Role         Role      `gorm:"size:16;not null;default:'user'" json:"role"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

func (User) TableName() string {
	return "users"
}
