package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
	"gorm.io/gorm"
)

type TaskPatch struct {
	Title       *string
	Description *string
	UsefulLink  *string
	Status      *models.TaskStatus
	DueDate     Nullable[time.Time]
}

func (p TaskPatch) changes() map[string]interface{} {
	c := map[string]interface{}{}
	setIf(c, "title", p.Title)
	setIf(c, "description", p.Description)
	setIf(c, "useful_link", p.UsefulLink)
	setIf(c, "status", p.Status)
	p.DueDate.apply(c, "due_date")
	return c
}

type TaskRepository struct {
	t table[models.Task]
}

func (r *TaskRepository) ListByAssociationID(ctx context.Context, associationID uint) ([]models.Task, error) {
	return r.t.list(ctx, where("association_id = ?", associationID))
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	return r.t.get(ctx, id)
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	return r.t.create(ctx, task)
}

func (r *TaskRepository) Update(ctx context.Context, id uint, p TaskPatch) (*models.Task, error) {
	return r.t.update(ctx, id, p.changes())
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.t.delete(ctx, id)
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) int64 {
	return r.t.count(ctx, where("status = ?", status))
}

// MarkOverdue moves open tasks whose due date is before now to overdue and
// reports how many rows changed.
func (r *TaskRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	store := r.t.store
	if !store.Available() {
		return 0, fmt.Errorf("task mark overdue: %w: %w", ErrStoreUnavailable, errNoStore)
	}

	res := store.conn(ctx).Model(&models.Task{}).
		Where("status IN ?", []models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress}).
		Where("due_date IS NOT NULL AND due_date < ?", now.UTC()).
		Update("status", models.TaskStatusOverdue)
	if res.Error != nil {
		return 0, store.writeFailed("task mark overdue", res.Error)
	}
	return res.RowsAffected, nil
}

type TaskAssignmentRepository struct {
	t table[models.TaskAssignment]
}

func (r *TaskAssignmentRepository) ListByTaskID(ctx context.Context, taskID uint) ([]models.TaskAssignment, error) {
	return r.t.list(ctx, where("task_id = ?", taskID))
}

// ReplaceForTask swaps the task's assignees for userIDs in one transaction.
func (r *TaskAssignmentRepository) ReplaceForTask(ctx context.Context, taskID uint, userIDs []uint) ([]models.TaskAssignment, error) {
	store := r.t.store
	if !store.Available() {
		return nil, fmt.Errorf("task assignment replace: %w: %w", ErrStoreUnavailable, errNoStore)
	}

	assignments := make([]models.TaskAssignment, 0, len(userIDs))
	seen := make(map[uint]bool, len(userIDs))
	for _, uid := range userIDs {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		assignments = append(assignments, models.TaskAssignment{TaskID: taskID, UserID: uid})
	}

	err := store.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
	if err != nil {
		return nil, store.writeFailed("task assignment replace", err)
	}
	return assignments, nil
}
