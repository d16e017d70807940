package rpc

import (
	"context"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
)

var policyNone = policy.Resource{}

func buddyOps() []*Operation {
	return []*Operation{
		query("buddies.list", listBuddies),
		query("buddies.get", getBuddy),
		mutation("buddies.create", createBuddy),
		mutation("buddies.update", updateBuddy),
		mutation("buddies.delete", deleteBuddy),
	}
}

func listBuddies(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	return c.repos().Buddies.List(ctx)
}

func getBuddy(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	return c.repos().Buddies.GetByID(ctx, in.ID)
}

func createBuddy(ctx context.Context, c *call, in *dto.CreateBuddyRequest) (interface{}, error) {
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: in.UserID}); err != nil {
		return nil, err
	}

	b := &models.Buddy{
		UserID:   in.UserID,
		Nickname: deref(in.Nickname),
		Team:     deref(in.Team),
		Level:    deref(in.Level),
		Status:   models.BuddyStatus(deref(in.Status)),
	}
	if err := c.repos().Buddies.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func updateBuddy(ctx context.Context, c *call, in *dto.UpdateBuddyRequest) (interface{}, error) {
	b, err := c.repos().Buddies.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: b.UserID}); err != nil {
		return nil, err
	}

	return c.repos().Buddies.Update(ctx, b.ID, repository.BuddyPatch{
		Nickname: in.Nickname,
		Team:     in.Team,
		Level:    in.Level,
		Status:   enumPtr[models.BuddyStatus](in.Status),
	})
}

func deleteBuddy(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	b, err := c.repos().Buddies.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: b.UserID}); err != nil {
		return nil, err
	}
	return nil, c.repos().Buddies.Delete(ctx, b.ID)
}

func newHireOps() []*Operation {
	return []*Operation{
		query("newHires.list", listNewHires),
		query("newHires.get", getNewHire),
		mutation("newHires.create", createNewHire),
		mutation("newHires.update", updateNewHire),
		mutation("newHires.delete", deleteNewHire),
	}
}

func listNewHires(ctx context.Context, c *call, _ *dto.Empty) (interface{}, error) {
	return c.repos().NewHires.List(ctx)
}

func getNewHire(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	return c.repos().NewHires.GetByID(ctx, in.ID)
}

func createNewHire(ctx context.Context, c *call, in *dto.CreateNewHireRequest) (interface{}, error) {
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: in.UserID}); err != nil {
		return nil, err
	}

	n := &models.NewHire{
		UserID:    in.UserID,
		Nickname:  deref(in.Nickname),
		Team:      deref(in.Team),
		Level:     deref(in.Level),
		Status:    models.NewHireStatus(deref(in.Status)),
		StartDate: in.StartDate.Ptr(),
	}
	if err := c.repos().NewHires.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func updateNewHire(ctx context.Context, c *call, in *dto.UpdateNewHireRequest) (interface{}, error) {
	n, err := c.repos().NewHires.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: n.UserID}); err != nil {
		return nil, err
	}

	return c.repos().NewHires.Update(ctx, n.ID, repository.NewHirePatch{
		Nickname:  in.Nickname,
		Team:      in.Team,
		Level:     in.Level,
		Status:    enumPtr[models.NewHireStatus](in.Status),
		StartDate: nullable(in.StartDate),
	})
}

func deleteNewHire(ctx context.Context, c *call, in *dto.IDInput) (interface{}, error) {
	n, err := c.repos().NewHires.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, policy.Resource{OwnerUserID: n.UserID}); err != nil {
		return nil, err
	}
	return nil, c.repos().NewHires.Delete(ctx, n.ID)
}
