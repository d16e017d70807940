package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hugh/buddy-tracker/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("record conflicts with an existing row")

	errNoStore = errors.New("no database configured")
)

type Options struct {
	// AllowDegradedReads turns read failures into empty results.
	AllowDegradedReads bool
	Logger             *slog.Logger
}

// Store is the handle every repository reads and writes through. A Store
// built around a nil *gorm.DB represents running without a backing database.
type Store struct {
	db                 *gorm.DB
	allowDegradedReads bool
	logger             *slog.Logger
}

func NewStore(db *gorm.DB, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		db:                 db,
		allowDegradedReads: opts.AllowDegradedReads,
		logger:             logger,
	}
}

func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

func (s *Store) DegradedReads() bool {
	return s != nil && s.allowDegradedReads
}

// Ping reports whether the underlying database answers.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, errNoStore)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// readFailed returns nil when degraded reads are allowed, in which case the
// caller answers with an empty result.
func (s *Store) readFailed(op string, err error) error {
	if s.allowDegradedReads {
		s.logger.Warn("degraded read", "op", op, "error", err)
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func (s *Store) writeFailed(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: referenced %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
}

// Nullable is a patch value for a column that can be cleared. Set=false
// leaves the column alone; Set=true with a nil Value writes NULL.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n Nullable[T]) apply(changes map[string]interface{}, column string) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		changes[column] = nil
		return
	}
	changes[column] = *n.Value
}

func setIf[T any](changes map[string]interface{}, column string, v *T) {
	if v != nil {
		changes[column] = *v
	}
}

// Repositories groups one accessor per entity over a shared Store.
type Repositories struct {
	Store           *Store
	Users           *UserRepository
	Buddies         *BuddyRepository
	NewHires        *NewHireRepository
	Associations    *AssociationRepository
	Tasks           *TaskRepository
	TaskAssignments *TaskAssignmentRepository
	Meetings        *MeetingRepository
	MeetingNotes    *MeetingNoteRepository
}

func New(store *Store) *Repositories {
	return &Repositories{
		Store:           store,
		Users:           &UserRepository{table[models.User]{store: store, name: "user"}},
		Buddies:         &BuddyRepository{table[models.Buddy]{store: store, name: "buddy"}},
		NewHires:        &NewHireRepository{table[models.NewHire]{store: store, name: "new hire"}},
		Associations:    &AssociationRepository{table[models.Association]{store: store, name: "association"}},
		Tasks:           &TaskRepository{table[models.Task]{store: store, name: "task"}},
		TaskAssignments: &TaskAssignmentRepository{table[models.TaskAssignment]{store: store, name: "task assignment"}},
		Meetings:        &MeetingRepository{table[models.Meeting]{store: store, name: "meeting"}},
		MeetingNotes:    &MeetingNoteRepository{table[models.MeetingNote]{store: store, name: "meeting note"}},
	}
}

// Transaction runs fn against repositories bound to a single database
// transaction. Any error from fn rolls back every write it made. Reads
// inside fn never degrade.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	store := r.Store
	if !store.Available() {
		return fmt.Errorf("transaction: %w: %w", ErrStoreUnavailable, errNoStore)
	}

	err := store.conn(ctx).Transaction(func(db *gorm.DB) error {
		return fn(New(&Store{db: db, logger: store.logger}))
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrStoreUnavailable):
		return err
	default:
		return store.writeFailed("transaction", err)
	}
}
