package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/buddy-tracker/internal/auth"
	"github.com/hugh/buddy-tracker/internal/database"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with foreign keys enforced.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return repository.New(repository.NewStore(db, repository.Options{}))
}

func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user := &models.User{
		ExternalID:   "sub-" + suffix,
		Name:         "Test User " + suffix,
		Email:        "test-" + suffix + "@example.com",
		LoginMethod:  "oauth",
		Role:         role,
		LastSignedIn: time.Now().UTC(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestBuddy(t *testing.T, db *gorm.DB, user *models.User) *models.Buddy {
	t.Helper()

	buddy := &models.Buddy{
		UserID:   user.ID,
		Nickname: user.Name,
		Team:     "Platform",
		Level:    "senior",
		Status:   models.BuddyStatusAvailable,
	}

	if err := db.Create(buddy).Error; err != nil {
		t.Fatalf("failed to create test buddy: %v", err)
	}

	return buddy
}

func CreateTestNewHire(t *testing.T, db *gorm.DB, user *models.User) *models.NewHire {
	t.Helper()

	start := time.Now().UTC().Truncate(24 * time.Hour)
	newHire := &models.NewHire{
		UserID:    user.ID,
		Nickname:  user.Name,
		Team:      "Platform",
		Level:     "junior",
		Status:    models.NewHireStatusOnboarding,
		StartDate: &start,
	}

	if err := db.Create(newHire).Error; err != nil {
		t.Fatalf("failed to create test new hire: %v", err)
	}

	return newHire
}

func CreateTestAssociation(t *testing.T, db *gorm.DB, buddy *models.Buddy, newHire *models.NewHire) *models.Association {
	t.Helper()

	association := &models.Association{
		BuddyID:   buddy.ID,
		NewHireID: newHire.ID,
		Status:    models.AssociationStatusActive,
		StartDate: time.Now().UTC(),
	}

	if err := db.Create(association).Error; err != nil {
		t.Fatalf("failed to create test association: %v", err)
	}

	return association
}

func CreateTestTask(t *testing.T, db *gorm.DB, association *models.Association, title string) *models.Task {
	t.Helper()

	task := &models.Task{
		AssociationID: association.ID,
		Title:         title,
		Status:        models.TaskStatusPending,
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

func CreateTestMeeting(t *testing.T, db *gorm.DB, association *models.Association) *models.Meeting {
	t.Helper()

	meeting := &models.Meeting{
		AssociationID: association.ID,
		Title:         "Weekly sync",
		ScheduledAt:   time.Now().UTC().Add(24 * time.Hour),
	}

	if err := db.Create(meeting).Error; err != nil {
		t.Fatalf("failed to create test meeting: %v", err)
	}

	return meeting
}

func CreateTestMeetingNote(t *testing.T, db *gorm.DB, meeting *models.Meeting, author *models.User) *models.MeetingNote {
	t.Helper()

	note := &models.MeetingNote{
		MeetingID: meeting.ID,
		UserID:    author.ID,
		Content:   "Discussed the first week",
	}

	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create test meeting note: %v", err)
	}

	return note
}

// Pairing is a buddy and a new hire, each with their own user, paired by an
// association.
type Pairing struct {
	BuddyUser   *models.User
	Buddy       *models.Buddy
	NewHireUser *models.User
	NewHire     *models.NewHire
	Association *models.Association
}

func CreateTestPairing(t *testing.T, db *gorm.DB) *Pairing {
	t.Helper()

	p := &Pairing{
		BuddyUser:   CreateTestUser(t, db, models.RoleBuddy),
		NewHireUser: CreateTestUser(t, db, models.RoleNewHire),
	}
	p.Buddy = CreateTestBuddy(t, db, p.BuddyUser)
	p.NewHire = CreateTestNewHire(t, db, p.NewHireUser)
	p.Association = CreateTestAssociation(t, db, p.Buddy, p.NewHire)
	return p
}

func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	Repos      *repository.Repositories
	JWTService *auth.JWTService
	Admin      *models.User
	AdminToken string
}

// NewTestContext creates a database, repositories, and an admin user with a
// session token.
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	admin := CreateTestUser(t, db, models.RoleAdmin)

	return &TestSetup{
		DB:         db,
		Repos:      NewRepositories(db),
		JWTService: jwtService,
		Admin:      admin,
		AdminToken: GenerateTestToken(t, jwtService, admin),
	}
}
