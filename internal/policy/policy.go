// Package policy decides whether a caller may perform an operation on a
// record. It never touches storage: the caller's profile ids and the target
// record are resolved beforehand and passed in.
package policy

import (
	"errors"

	"github.com/hugh/buddy-tracker/internal/database/models"
)

var ErrForbidden = errors.New("forbidden")

type Action string

const (
	AuthMe     Action = "auth.me"
	AuthLogout Action = "auth.logout"

	DashboardMetrics Action = "dashboard.getMetrics"

	BuddiesList   Action = "buddies.list"
	BuddiesGet    Action = "buddies.get"
	BuddiesCreate Action = "buddies.create"
	BuddiesUpdate Action = "buddies.update"
	BuddiesDelete Action = "buddies.delete"

	NewHiresList   Action = "newHires.list"
	NewHiresGet    Action = "newHires.get"
	NewHiresCreate Action = "newHires.create"
	NewHiresUpdate Action = "newHires.update"
	NewHiresDelete Action = "newHires.delete"

	AssociationsList   Action = "associations.list"
	AssociationsGet    Action = "associations.get"
	AssociationsCreate Action = "associations.create"
	AssociationsUpdate Action = "associations.update"
	AssociationsDelete Action = "associations.delete"

	TasksListByAssociation Action = "tasks.listByAssociation"
	TasksGet               Action = "tasks.get"
	TasksCreate            Action = "tasks.create"
	TasksUpdate            Action = "tasks.update"
	TasksDelete            Action = "tasks.delete"
	TasksListAssignments   Action = "tasks.listAssignments"

	MeetingsListByAssociation Action = "meetings.listByAssociation"
	MeetingsGet               Action = "meetings.get"
	MeetingsCreate            Action = "meetings.create"
	MeetingsUpdate            Action = "meetings.update"
	MeetingsDelete            Action = "meetings.delete"

	MeetingNotesListByMeeting Action = "meetingNotes.listByMeeting"
	MeetingNotesCreate        Action = "meetingNotes.create"
	MeetingNotesUpdate        Action = "meetingNotes.update"
	MeetingNotesDelete        Action = "meetingNotes.delete"

	UsersList       Action = "users.list"
	UsersUpdateRole Action = "users.updateRole"
)

// Subject is the caller. BuddyID and NewHireID are the caller's profile ids,
// zero when the caller has no such profile.
type Subject struct {
	UserID    uint
	Role      models.Role
	BuddyID   uint
	NewHireID uint
}

func (s Subject) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Resource describes the record an action targets. OwnerUserID is the user a
// buddy or new-hire profile belongs to (or will belong to, on create).
// Association is the pairing that owns a task, meeting or note.
// AuthorUserID is the author of a meeting note.
type Resource struct {
	OwnerUserID  uint
	Association  *models.Association
	AuthorUserID uint
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

type rule int

const (
	ruleAuthenticated rule = iota
	ruleAdmin
	ruleOwner
	ruleParticipant
	ruleAuthor
)

var rules = map[Action]rule{
	AuthMe:           ruleAuthenticated,
	AuthLogout:       ruleAuthenticated,
	DashboardMetrics: ruleAuthenticated,

	BuddiesList:   ruleAuthenticated,
	BuddiesGet:    ruleAuthenticated,
	BuddiesCreate: ruleOwner,
	BuddiesUpdate: ruleOwner,
	BuddiesDelete: ruleAdmin,

	NewHiresList:   ruleAuthenticated,
	NewHiresGet:    ruleAuthenticated,
	NewHiresCreate: ruleOwner,
	NewHiresUpdate: ruleOwner,
	NewHiresDelete: ruleAdmin,

	AssociationsList:   ruleAuthenticated,
	AssociationsGet:    ruleParticipant,
	AssociationsCreate: ruleAdmin,
	AssociationsUpdate: ruleAdmin,
	AssociationsDelete: ruleAdmin,

	TasksListByAssociation: ruleParticipant,
	TasksGet:               ruleParticipant,
	TasksCreate:            ruleParticipant,
	TasksUpdate:            ruleParticipant,
	TasksDelete:            ruleParticipant,
	TasksListAssignments:   ruleParticipant,

	MeetingsListByAssociation: ruleParticipant,
	MeetingsGet:               ruleParticipant,
	MeetingsCreate:            ruleParticipant,
	MeetingsUpdate:            ruleParticipant,
	MeetingsDelete:            ruleParticipant,

	MeetingNotesListByMeeting: ruleParticipant,
	MeetingNotesCreate:        ruleParticipant,
	MeetingNotesUpdate:        ruleAuthor,
	MeetingNotesDelete:        ruleAuthor,

	UsersList:       ruleAdmin,
	UsersUpdateRole: ruleAdmin,
}

// Evaluator holds the rule table. The zero value is ready to use.
type Evaluator struct{}

func New() *Evaluator {
	return &Evaluator{}
}

// AdminOnly reports whether only admins may perform the action.
func (e *Evaluator) AdminOnly(action Action) bool {
	r, ok := rules[action]
	return ok && r == ruleAdmin
}

// Decide denies unknown actions and anonymous subjects.
func (e *Evaluator) Decide(sub Subject, action Action, res Resource) Decision {
	r, ok := rules[action]
	if !ok || sub.UserID == 0 {
		return Deny
	}
	if sub.IsAdmin() {
		return Allow
	}

	switch r {
	case ruleAuthenticated:
		return Allow
	case ruleOwner:
		return allowIf(res.OwnerUserID != 0 && res.OwnerUserID == sub.UserID)
	case ruleParticipant:
		return allowIf(isParticipant(sub, res.Association))
	case ruleAuthor:
		return allowIf(isParticipant(sub, res.Association) && res.AuthorUserID == sub.UserID)
	default:
		return Deny
	}
}

func (e *Evaluator) Authorize(sub Subject, action Action, res Resource) error {
	if e.Decide(sub, action, res) == Allow {
		return nil
	}
	return ErrForbidden
}

func isParticipant(sub Subject, a *models.Association) bool {
	return a != nil && a.HasParticipant(sub.BuddyID, sub.NewHireID)
}

func allowIf(ok bool) Decision {
	if ok {
		return Allow
	}
	return Deny
}

// ScopeKind selects which associations a list may return.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeBuddy
	ScopeNewHire
)

type Scope struct {
	Kind ScopeKind
	// ProfileID is the buddy or new-hire id for ScopeBuddy and ScopeNewHire.
	ProfileID uint
}

// ScopeAssociations narrows associations.list by role. Buddies and new hires
// see only their own pairings; anyone else without admin sees nothing.
func (e *Evaluator) ScopeAssociations(sub Subject) Scope {
	switch {
	case sub.UserID == 0:
		return Scope{Kind: ScopeNone}
	case sub.IsAdmin():
		return Scope{Kind: ScopeAll}
	case sub.Role == models.RoleBuddy && sub.BuddyID != 0:
		return Scope{Kind: ScopeBuddy, ProfileID: sub.BuddyID}
	case sub.Role == models.RoleNewHire && sub.NewHireID != 0:
		return Scope{Kind: ScopeNewHire, ProfileID: sub.NewHireID}
	default:
		return Scope{Kind: ScopeNone}
	}
}
