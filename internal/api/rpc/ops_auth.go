package rpc

import (
	"context"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/database/models"
)

func authOps() []*Operation {
	return []*Operation{
		public(query("auth.me", me)),
		public(mutation("auth.logout", logout)),
	}
}

// me returns nil for anonymous callers.
func me(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	u := c.user()
	if u == nil {
		return nil, nil
	}

	buddyID, newHireID, err := c.d.profileIDs(ctx, u.ID)
	if err != nil {
		c.d.logger.WarnContext(ctx, "resolving caller profiles", "user_id", u.ID, "error", err)
		buddyID, newHireID = 0, 0
	}
	return dto.NewUserDTO(u, buddyID, newHireID), nil
}

func logout(_ context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	if c.req.Session != nil {
		c.req.Session.ClearCredential()
	}
	return dto.SuccessResponse{Success: true}, nil
}

func dashboardOps() []*Operation {
	return []*Operation{
		query("dashboard.getMetrics", dashboardMetrics),
	}
}

// Each count falls back to zero on its own when the store cannot answer.
func dashboardMetrics(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	r := c.repos()
	return dto.DashboardMetrics{
		BuddyCount:         r.Buddies.Count(ctx),
		NewHireCount:       r.NewHires.Count(ctx),
		ActiveAssociations: r.Associations.CountByStatus(ctx, models.AssociationStatusActive),
		PendingTasks:       r.Tasks.CountByStatus(ctx, models.TaskStatusPending),
	}, nil
}

func userOps() []*Operation {
	return []*Operation{
		query("users.list", listUsers),
		mutation("users.updateRole", updateUserRole),
	}
}

func listUsers(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	if err := c.authorize(ctx, policyNone); err != nil {
		return nil, err
	}
	return c.repos().Users.List(ctx)
}

func updateUserRole(ctx context.Context, c *call, in *dto.UpdateRoleRequest) (interface{}, error) {
	target, err := c.repos().Users.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policyNone); err != nil {
		return nil, err
	}
	return c.repos().Users.UpdateRole(ctx, target.ID, models.Role(in.Role))
}
