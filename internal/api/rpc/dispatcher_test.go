package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/hugh/buddy-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	*testutil.TestSetup
	d *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ts := testutil.NewTestContext(t)
	return &fixture{TestSetup: ts, d: NewDispatcher(ts.Repos, policy.New(), nil)}
}

func (f *fixture) call(t *testing.T, user *models.User, name string, input interface{}) (interface{}, error) {
	t.Helper()
	return callWith(t, f.d, &Request{User: user}, name, input)
}

func callWith(t *testing.T, d *Dispatcher, req *Request, name string, input interface{}) (interface{}, error) {
	t.Helper()

	var raw json.RawMessage
	switch v := input.(type) {
	case nil:
	case string:
		raw = json.RawMessage(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		raw = b
	}
	return d.Call(context.Background(), req, name, raw)
}

func codeOf(err error) string {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	return ""
}

type countingSession struct{ cleared int }

func (s *countingSession) ClearCredential() { s.cleared++ }

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func TestScenario_AdminBuildsPairing(t *testing.T) {
	f := newFixture(t)
	ann := testutil.CreateTestUser(t, f.DB, models.RoleBuddy)
	ben := testutil.CreateTestUser(t, f.DB, models.RoleNewHire)

	out, err := f.call(t, f.Admin, "buddies.create", map[string]interface{}{"userId": ann.ID, "nickname": "Ann", "status": "available"})
	require.NoError(t, err)
	buddy := out.(*models.Buddy)
	assert.Equal(t, uint(1), buddy.ID)

	out, err = f.call(t, f.Admin, "newHires.create", map[string]interface{}{"userId": ben.ID, "nickname": "Ben", "status": "onboarding"})
	require.NoError(t, err)
	newHire := out.(*models.NewHire)
	assert.Equal(t, uint(1), newHire.ID)

	out, err = f.call(t, f.Admin, "associations.create", map[string]interface{}{"buddyId": 1, "newHireId": 1, "startDate": today()})
	require.NoError(t, err)
	association := out.(*models.Association)
	assert.Equal(t, models.AssociationStatusActive, association.Status)

	out, err = f.call(t, f.Admin, "tasks.create", map[string]interface{}{"associationId": association.ID, "title": "Setup laptop"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, out.(*models.Task).Status)

	out, err = f.call(t, f.Admin, "dashboard.getMetrics", nil)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardMetrics{BuddyCount: 1, NewHireCount: 1, ActiveAssociations: 1, PendingTasks: 1}, out)
}

func TestBuddy_RoundTrip(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	out, err := f.call(t, user, "buddies.create", map[string]interface{}{
		"userId": user.ID, "nickname": "Ann", "team": "Core", "level": "senior", "status": "unavailable",
	})
	require.NoError(t, err)
	created := out.(*models.Buddy)

	out, err = f.call(t, user, "buddies.get", map[string]interface{}{"id": created.ID})
	require.NoError(t, err)
	got := out.(*models.Buddy)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Ann", got.Nickname)
	assert.Equal(t, "Core", got.Team)
	assert.Equal(t, "senior", got.Level)
	assert.Equal(t, models.BuddyStatusUnavailable, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestAdminOnly_ForbiddenRegardlessOfInput(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)
	plain := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	ops := map[string][]interface{}{
		"associations.create": {
			map[string]interface{}{"buddyId": p.Buddy.ID, "newHireId": p.NewHire.ID, "startDate": today()},
			map[string]interface{}{},
			`{"bogus":true}`,
			`not json`,
		},
		"associations.update": {
			map[string]interface{}{"id": p.Association.ID, "status": "paused"},
			map[string]interface{}{"id": 9999},
			map[string]interface{}{"id": p.Association.ID, "status": "nope"},
		},
		"associations.delete": {map[string]interface{}{"id": p.Association.ID}, map[string]interface{}{}},
		"buddies.delete":      {map[string]interface{}{"id": p.Buddy.ID}, map[string]interface{}{"id": 0}},
		"newHires.delete":     {map[string]interface{}{"id": p.NewHire.ID}, `[]`},
		"users.updateRole":    {map[string]interface{}{"id": p.BuddyUser.ID, "role": "admin"}},
		"users.list":          {nil},
	}

	for name, inputs := range ops {
		for _, caller := range []*models.User{p.BuddyUser, p.NewHireUser, plain} {
			for _, input := range inputs {
				_, err := f.call(t, caller, name, input)
				assert.Equal(t, dto.CodeForbidden, codeOf(err), "%s as %s with %v", name, caller.Role, input)
			}
		}
		_, err := f.call(t, nil, name, inputs[0])
		assert.Equal(t, dto.CodeUnauthorized, codeOf(err), "%s anonymous", name)
	}

	var count int64
	require.NoError(t, f.DB.Model(&models.Association{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAssociationsList_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)

	// A second pairing for the same new hire and a third unrelated one.
	otherBuddyUser := testutil.CreateTestUser(t, f.DB, models.RoleBuddy)
	otherBuddy := testutil.CreateTestBuddy(t, f.DB, otherBuddyUser)
	second := testutil.CreateTestAssociation(t, f.DB, otherBuddy, p.NewHire)
	q := testutil.CreateTestPairing(t, f.DB)

	idsOf := func(out interface{}) []uint {
		rows := out.([]models.Association)
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		return ids
	}

	out, err := f.call(t, p.BuddyUser, "associations.list", nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.Association.ID}, idsOf(out))

	out, err = f.call(t, p.NewHireUser, "associations.list", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p.Association.ID, second.ID}, idsOf(out))

	out, err = f.call(t, f.Admin, "associations.list", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p.Association.ID, second.ID, q.Association.ID}, idsOf(out))

	plain := testutil.CreateTestUser(t, f.DB, models.RoleUser)
	out, err = f.call(t, plain, "associations.list", nil)
	require.NoError(t, err)
	assert.Empty(t, idsOf(out))

	profileless := testutil.CreateTestUser(t, f.DB, models.RoleBuddy)
	out, err = f.call(t, profileless, "associations.list", nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, idsOf(out))
}

func TestDeleteAssociation_CascadesThenNotFound(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)
	task := testutil.CreateTestTask(t, f.DB, p.Association, "Read handbook")
	meeting := testutil.CreateTestMeeting(t, f.DB, p.Association)
	testutil.CreateTestMeetingNote(t, f.DB, meeting, p.NewHireUser)
	_, err := f.Repos.TaskAssignments.ReplaceForTask(context.Background(), task.ID, []uint{p.NewHireUser.ID})
	require.NoError(t, err)

	out, err := f.call(t, f.Admin, "associations.delete", map[string]interface{}{"id": p.Association.ID})
	require.NoError(t, err)
	assert.Nil(t, out)

	for _, m := range []interface{}{&models.Task{}, &models.TaskAssignment{}, &models.Meeting{}, &models.MeetingNote{}} {
		var count int64
		require.NoError(t, f.DB.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}

	_, err = f.call(t, f.Admin, "tasks.listByAssociation", map[string]interface{}{"associationId": p.Association.ID})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))
}

func TestLogout_ClearsCredentialOnce(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	for _, caller := range []*models.User{user, nil} {
		session := &countingSession{}
		out, err := callWith(t, f.d, &Request{User: caller, Session: session}, "auth.logout", nil)
		require.NoError(t, err)
		assert.Equal(t, dto.SuccessResponse{Success: true}, out)
		assert.Equal(t, 1, session.cleared)
	}
}

func TestAuthMe(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)

	out, err := f.call(t, nil, "auth.me", nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = f.call(t, p.BuddyUser, "auth.me", nil)
	require.NoError(t, err)
	me := out.(*dto.UserDTO)
	assert.Equal(t, p.BuddyUser.ID, me.ID)
	require.NotNil(t, me.BuddyID)
	assert.Equal(t, p.Buddy.ID, *me.BuddyID)
	assert.Nil(t, me.NewHireID)
}

func TestUnknownOperation(t *testing.T) {
	f := newFixture(t)

	_, err := f.call(t, f.Admin, "buddies.purge", nil)
	assert.Equal(t, dto.CodeNotFound, codeOf(err))
}

func TestProtectedOperationsRequireCaller(t *testing.T) {
	f := newFixture(t)

	for _, name := range f.d.Names() {
		op, _ := f.d.Lookup(name)
		if op.Public {
			continue
		}
		_, err := f.call(t, nil, name, nil)
		assert.Equal(t, dto.CodeUnauthorized, codeOf(err), name)
	}
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)

	tests := []struct {
		name   string
		op     string
		input  interface{}
		detail string
	}{
		{"enum outside domain", "buddies.create", map[string]interface{}{"userId": p.BuddyUser.ID, "status": "busy"}, "status"},
		{"missing id", "buddies.get", map[string]interface{}{}, "id"},
		{"unknown field", "buddies.update", map[string]interface{}{"id": p.Buddy.ID, "role": "admin"}, "input"},
		{"missing title", "tasks.create", map[string]interface{}{"associationId": p.Association.ID}, "title"},
		{"nickname too long", "newHires.update", map[string]interface{}{"id": p.NewHire.ID, "nickname": strings.Repeat("a", 101)}, "nickname"},
		{"bad date", "meetings.create", map[string]interface{}{"associationId": p.Association.ID, "scheduledAt": "next tuesday"}, "input"},
		{"missing date", "meetings.create", map[string]interface{}{"associationId": p.Association.ID}, "scheduledAt"},
		{"id as string", "tasks.get", `{"id":"1"}`, "input"},
		{"trailing data", "tasks.get", `{"id":1} {"id":2}`, "input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.call(t, f.Admin, tt.op, tt.input)
			require.Equal(t, dto.CodeBadRequest, codeOf(err), "%v", err)

			var rpcErr *Error
			require.True(t, errors.As(err, &rpcErr))
			assert.Contains(t, rpcErr.Details, tt.detail)
		})
	}
}

func TestNotFoundBeforePolicy(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)
	outsider := testutil.CreateTestUser(t, f.DB, models.RoleBuddy)
	testutil.CreateTestBuddy(t, f.DB, outsider)
	task := testutil.CreateTestTask(t, f.DB, p.Association, "Existing")

	cases := []struct {
		op    string
		input map[string]interface{}
	}{
		{"tasks.update", map[string]interface{}{"id": 999, "title": "x"}},
		{"tasks.delete", map[string]interface{}{"id": 999}},
		{"meetings.create", map[string]interface{}{"associationId": 999, "scheduledAt": today()}},
		{"meetingNotes.update", map[string]interface{}{"id": 999, "content": "x"}},
		{"buddies.update", map[string]interface{}{"id": 999, "nickname": "x"}},
	}
	for _, tc := range cases {
		_, err := f.call(t, outsider, tc.op, tc.input)
		assert.Equal(t, dto.CodeNotFound, codeOf(err), tc.op)
	}

	_, err := f.call(t, outsider, "tasks.update", map[string]interface{}{"id": task.ID, "title": "x"})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))
}

func TestParticipantAccess(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)
	outsider := testutil.CreateTestUser(t, f.DB, models.RoleBuddy)
	testutil.CreateTestBuddy(t, f.DB, outsider)
	plain := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	create := map[string]interface{}{"associationId": p.Association.ID, "title": "Meet the team", "dueDate": today()}

	for _, caller := range []*models.User{p.BuddyUser, p.NewHireUser, f.Admin} {
		out, err := f.call(t, caller, "tasks.create", create)
		require.NoError(t, err, caller.Role)
		task := out.(*models.Task)

		_, err = f.call(t, caller, "tasks.get", map[string]interface{}{"id": task.ID})
		assert.NoError(t, err)
	}

	for _, caller := range []*models.User{outsider, plain} {
		_, err := f.call(t, caller, "tasks.create", create)
		assert.Equal(t, dto.CodeForbidden, codeOf(err), caller.Role)

		_, err = f.call(t, caller, "associations.get", map[string]interface{}{"id": p.Association.ID})
		assert.Equal(t, dto.CodeForbidden, codeOf(err), caller.Role)

		_, err = f.call(t, caller, "meetings.listByAssociation", map[string]interface{}{"associationId": p.Association.ID})
		assert.Equal(t, dto.CodeForbidden, codeOf(err), caller.Role)
	}

	task := testutil.CreateTestTask(t, f.DB, p.Association, "Hidden")
	_, err := f.call(t, outsider, "tasks.get", map[string]interface{}{"id": task.ID})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	out, err := f.call(t, p.NewHireUser, "tasks.listByAssociation", map[string]interface{}{"associationId": p.Association.ID})
	require.NoError(t, err)
	assert.Len(t, out.([]models.Task), 4)
}

func TestSelfServiceProfiles(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateTestUser(t, f.DB, models.RoleUser)
	other := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	_, err := f.call(t, user, "newHires.create", map[string]interface{}{"userId": other.ID})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	out, err := f.call(t, user, "newHires.create", map[string]interface{}{"userId": user.ID, "startDate": "2026-03-01"})
	require.NoError(t, err)
	created := out.(*models.NewHire)
	assert.Equal(t, models.NewHireStatusOnboarding, created.Status)
	require.NotNil(t, created.StartDate)

	_, err = f.call(t, user, "newHires.create", map[string]interface{}{"userId": user.ID})
	assert.Equal(t, dto.CodeConflict, codeOf(err))

	out, err = f.call(t, user, "newHires.update", map[string]interface{}{"id": created.ID, "status": "active", "startDate": nil})
	require.NoError(t, err)
	updated := out.(*models.NewHire)
	assert.Equal(t, models.NewHireStatusActive, updated.Status)
	assert.Nil(t, updated.StartDate)

	_, err = f.call(t, other, "newHires.update", map[string]interface{}{"id": created.ID, "status": "inactive"})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	_, err = f.call(t, f.Admin, "buddies.create", map[string]interface{}{"userId": 4242})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))
}

func TestMeetings_CompletionToggle(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)

	out, err := f.call(t, p.BuddyUser, "meetings.create", map[string]interface{}{
		"associationId": p.Association.ID, "title": "Kickoff", "scheduledAt": "2026-04-01T09:00:00Z",
	})
	require.NoError(t, err)
	meeting := out.(*models.Meeting)
	assert.False(t, meeting.Completed())

	out, err = f.call(t, p.NewHireUser, "meetings.update", map[string]interface{}{"id": meeting.ID, "completedAt": "2026-04-01T10:00:00Z"})
	require.NoError(t, err)
	assert.True(t, out.(*models.Meeting).Completed())

	out, err = f.call(t, p.NewHireUser, "meetings.update", map[string]interface{}{"id": meeting.ID, "completedAt": nil})
	require.NoError(t, err)
	assert.False(t, out.(*models.Meeting).Completed())
	assert.Equal(t, "Kickoff", out.(*models.Meeting).Title)

	out, err = f.call(t, p.BuddyUser, "meetings.get", map[string]interface{}{"id": meeting.ID})
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, out.(*models.Meeting).ID)
}

func TestMeetingNotes_Authorship(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)
	meeting := testutil.CreateTestMeeting(t, f.DB, p.Association)

	out, err := f.call(t, p.NewHireUser, "meetingNotes.create", map[string]interface{}{"meetingId": meeting.ID, "content": "My notes"})
	require.NoError(t, err)
	note := out.(*models.MeetingNote)
	assert.Equal(t, p.NewHireUser.ID, note.UserID)

	_, err = f.call(t, p.BuddyUser, "meetingNotes.update", map[string]interface{}{"id": note.ID, "content": "edited by buddy"})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	_, err = f.call(t, p.BuddyUser, "meetingNotes.delete", map[string]interface{}{"id": note.ID})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	out, err = f.call(t, p.NewHireUser, "meetingNotes.update", map[string]interface{}{"id": note.ID, "content": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", out.(*models.MeetingNote).Content)

	out, err = f.call(t, p.BuddyUser, "meetingNotes.listByMeeting", map[string]interface{}{"meetingId": meeting.ID})
	require.NoError(t, err)
	assert.Len(t, out.([]models.MeetingNote), 1)

	outsider := testutil.CreateTestUser(t, f.DB, models.RoleNewHire)
	testutil.CreateTestNewHire(t, f.DB, outsider)
	_, err = f.call(t, outsider, "meetingNotes.listByMeeting", map[string]interface{}{"meetingId": meeting.ID})
	assert.Equal(t, dto.CodeForbidden, codeOf(err))

	_, err = f.call(t, f.Admin, "meetingNotes.delete", map[string]interface{}{"id": note.ID})
	require.NoError(t, err)
}

func TestTaskAssignments(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateTestPairing(t, f.DB)

	out, err := f.call(t, p.BuddyUser, "tasks.create", map[string]interface{}{
		"associationId": p.Association.ID, "title": "Pair on first PR", "assigneeIds": []uint{p.BuddyUser.ID, p.NewHireUser.ID},
	})
	require.NoError(t, err)
	task := out.(*models.Task)

	out, err = f.call(t, p.NewHireUser, "tasks.listAssignments", map[string]interface{}{"taskId": task.ID})
	require.NoError(t, err)
	assert.Len(t, out.([]models.TaskAssignment), 2)

	_, err = f.call(t, p.NewHireUser, "tasks.update", map[string]interface{}{"id": task.ID, "status": "inProgress", "assigneeIds": []uint{}})
	require.NoError(t, err)

	out, err = f.call(t, p.NewHireUser, "tasks.listAssignments", map[string]interface{}{"taskId": task.ID})
	require.NoError(t, err)
	assert.Empty(t, out.([]models.TaskAssignment))

	_, err = f.call(t, p.NewHireUser, "tasks.update", map[string]interface{}{"id": task.ID, "assigneeIds": []uint{9999}})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))

	_, err = f.call(t, p.BuddyUser, "tasks.create", map[string]interface{}{
		"associationId": p.Association.ID, "title": "Ghost", "assigneeIds": []uint{9999},
	})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))

	var count int64
	require.NoError(t, f.DB.Model(&models.Task{}).Where("title = ?", "Ghost").Count(&count).Error)
	assert.Zero(t, count)
}

func TestUsers_UpdateRole(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateTestUser(t, f.DB, models.RoleUser)

	out, err := f.call(t, f.Admin, "users.updateRole", map[string]interface{}{"id": user.ID, "role": "buddy"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuddy, out.(*models.User).Role)

	_, err = f.call(t, f.Admin, "users.updateRole", map[string]interface{}{"id": user.ID, "role": "owner"})
	assert.Equal(t, dto.CodeBadRequest, codeOf(err))

	_, err = f.call(t, f.Admin, "users.updateRole", map[string]interface{}{"id": 9999, "role": "user"})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))

	out, err = f.call(t, f.Admin, "users.list", nil)
	require.NoError(t, err)
	assert.Len(t, out.([]models.User), 2)
}

func TestDegradedStore(t *testing.T) {
	repos := repository.New(repository.NewStore(nil, repository.Options{AllowDegradedReads: true}))
	d := NewDispatcher(repos, policy.New(), nil)
	admin := &models.User{Base: models.Base{ID: 1}, Role: models.RoleAdmin}
	buddy := &models.User{Base: models.Base{ID: 2}, Role: models.RoleBuddy}

	out, err := callWith(t, d, &Request{User: admin}, "buddies.list", nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = callWith(t, d, &Request{User: buddy}, "associations.list", nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = callWith(t, d, &Request{User: admin}, "dashboard.getMetrics", nil)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardMetrics{}, out)

	_, err = callWith(t, d, &Request{User: admin}, "buddies.create", map[string]interface{}{"userId": 1})
	assert.Equal(t, dto.CodeStoreUnavailable, codeOf(err))

	_, err = callWith(t, d, &Request{User: admin}, "buddies.get", map[string]interface{}{"id": 1})
	assert.Equal(t, dto.CodeNotFound, codeOf(err))
}

func TestStrictStore(t *testing.T) {
	repos := repository.New(repository.NewStore(nil, repository.Options{}))
	d := NewDispatcher(repos, policy.New(), nil)
	admin := &models.User{Base: models.Base{ID: 1}, Role: models.RoleAdmin}

	_, err := callWith(t, d, &Request{User: admin}, "buddies.list", nil)
	assert.Equal(t, dto.CodeStoreUnavailable, codeOf(err))

	out, err := callWith(t, d, &Request{User: admin}, "dashboard.getMetrics", nil)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardMetrics{}, out)
}

func TestCatalog(t *testing.T) {
	d := NewDispatcher(repository.New(repository.NewStore(nil, repository.Options{})), policy.New(), nil)

	want := []string{
		"auth.me", "auth.logout", "dashboard.getMetrics",
		"buddies.list", "buddies.get", "buddies.create", "buddies.update", "buddies.delete",
		"newHires.list", "newHires.get", "newHires.create", "newHires.update", "newHires.delete",
		"associations.list", "associations.get", "associations.create", "associations.update", "associations.delete",
		"tasks.listByAssociation", "tasks.get", "tasks.create", "tasks.update", "tasks.delete", "tasks.listAssignments",
		"meetings.listByAssociation", "meetings.get", "meetings.create", "meetings.update", "meetings.delete",
		"meetingNotes.listByMeeting", "meetingNotes.create", "meetingNotes.update", "meetingNotes.delete",
		"users.list", "users.updateRole",
	}
	assert.ElementsMatch(t, want, d.Names())

	op, ok := d.Lookup("auth.me")
	require.True(t, ok)
	assert.True(t, op.Public)
	assert.Equal(t, Query, op.Kind)

	op, ok = d.Lookup("associations.create")
	require.True(t, ok)
	assert.True(t, op.AdminOnly())
	assert.Equal(t, Mutation, op.Kind)
	assert.Equal(t, "mutation", op.Kind.String())
}

func TestAsError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{repository.ErrNotFound, dto.CodeNotFound},
		{policy.ErrForbidden, dto.CodeForbidden},
		{repository.ErrConflict, dto.CodeConflict},
		{repository.ErrStoreUnavailable, dto.CodeStoreUnavailable},
		{errors.New("boom"), dto.CodeInternal},
		{badRequest("x", nil), dto.CodeBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, AsError(tt.err).Code, tt.err.Error())
	}
}
