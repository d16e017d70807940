package rpc

import (
	"context"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
)

func associationOps() []*Operation {
	return []*Operation{
		query("associations.list", listAssociations),
		query("associations.get", getAssociation),
		mutation("associations.create", createAssociation),
		mutation("associations.update", updateAssociation),
		mutation("associations.delete", deleteAssociation),
	}
}

func listAssociations(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	sub, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	repo := c.repos().Associations
	scope := c.d.policy.ScopeAssociations(sub)
	switch scope.Kind {
	case policy.ScopeAll:
		return repo.List(ctx)
	case policy.ScopeBuddy:
		return repo.ListByBuddyID(ctx, scope.ProfileID)
	case policy.ScopeNewHire:
		return repo.ListByNewHireID(ctx, scope.ProfileID)
	default:
		return []models.Association{}, nil
	}
}

// participantScope loads an association and checks the caller may act on it.
func (c *call) participantScope(ctx context.Context, associationID uint) (*models.Association, error) {
	a, err := c.repos().Associations.GetByID(ctx, associationID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{Association: a}); err != nil {
		return nil, err
	}
	return a, nil
}

func getAssociation(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	return c.participantScope(ctx, in.ID)
}

func createAssociation(ctx context.Context, c *call, in *dto.CreateAssociationRequest) (interface{}, error) {
	r := c.repos()
	if _, err := r.Buddies.GetByID(ctx, in.BuddyID); err != nil {
		return nil, err
	}
	if _, err := r.NewHires.GetByID(ctx, in.NewHireID); err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policyNone); err != nil {
		return nil, err
	}

	a := &models.Association{
		BuddyID:   in.BuddyID,
		NewHireID: in.NewHireID,
		Status:    models.AssociationStatusActive,
		StartDate: in.StartDate.Time,
	}
	if err := r.Associations.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func updateAssociation(ctx context.Context, c *call, in *dto.UpdateAssociationRequest) (interface{}, error) {
	a, err := c.participantScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return c.repos().Associations.Update(ctx, a.ID, repository.AssociationPatch{
		Status:  enumPtr[models.AssociationStatus](in.Status),
		EndDate: nullable(in.EndDate),
	})
}

func deleteAssociation(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	a, err := c.participantScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return nil, c.repos().Associations.Delete(ctx, a.ID)
}

func taskOps() []*Operation {
	return []*Operation{
		query("tasks.listByAssociation", listTasks),
		query("tasks.get", getTask),
		query("tasks.listAssignments", listTaskAssignments),
		mutation("tasks.create", createTask),
		mutation("tasks.update", updateTask),
		mutation("tasks.delete", deleteTask),
	}
}

func listTasks(ctx context.Context, c *call, in *dto.AssociationIDInput) (interface{}, error) {
	a, err := c.participantScope(ctx, in.AssociationID)
	if err != nil {
		return nil, err
	}
	return c.repos().Tasks.ListByAssociationID(ctx, a.ID)
}

// taskInScope loads a task and checks the caller may act on its association.
func (c *call) taskInScope(ctx context.Context, id uint) (*models.Task, error) {
	t, err := c.repos().Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := c.participantScope(ctx, t.AssociationID); err != nil {
		return nil, err
	}
	return t, nil
}

func getTask(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	return c.taskInScope(ctx, in.ID)
}

func listTaskAssignments(ctx context.Context, c *call, in *dto.TaskIDInput) (interface{}, error) {
	t, err := c.taskInScope(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	return c.repos().TaskAssignments.ListByTaskID(ctx, t.ID)
}

// checkAssignees makes sure every assignee is a known user before anything
// is written.
func (c *call) checkAssignees(ctx context.Context, userIDs []uint) error {
	for _, id := range userIDs {
		if _, err := c.repos().Users.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func createTask(ctx context.Context, c *call, in *dto.CreateTaskRequest) (interface{}, error) {
	a, err := c.participantScope(ctx, in.AssociationID)
	if err != nil {
		return nil, err
	}
	if err := c.checkAssignees(ctx, in.AssigneeIDs); err != nil {
		return nil, err
	}

	t := &models.Task{
		AssociationID: a.ID,
		Title:         in.Title,
		Description:   deref(in.Description),
		UsefulLink:    deref(in.UsefulLink),
		Status:        models.TaskStatus(deref(in.Status)),
		DueDate:       in.DueDate.Ptr(),
	}
	err = c.repos().Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Tasks.Create(ctx, t); err != nil {
			return err
		}
		if len(in.AssigneeIDs) == 0 {
			return nil
		}
		_, err := tx.TaskAssignments.ReplaceForTask(ctx, t.ID, in.AssigneeIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func updateTask(ctx context.Context, c *call, in *dto.UpdateTaskRequest) (interface{}, error) {
	t, err := c.taskInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.AssigneeIDs != nil {
		if err := c.checkAssignees(ctx, *in.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	var updated *models.Task
	err = c.repos().Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		updated, err = tx.Tasks.Update(ctx, t.ID, repository.TaskPatch{
			Title:       in.Title,
			Description: in.Description,
			UsefulLink:  in.UsefulLink,
			Status:      enumPtr[models.TaskStatus](in.Status),
			DueDate:     nullable(in.DueDate),
		})
		if err != nil || in.AssigneeIDs == nil {
			return err
		}
		_, err = tx.TaskAssignments.ReplaceForTask(ctx, t.ID, *in.AssigneeIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func deleteTask(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	t, err := c.taskInScope(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return nil, c.repos().Tasks.Delete(ctx, t.ID)
}
