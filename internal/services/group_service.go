package services

import (
	"context"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/repositories"
	"discoveryfy/internal/utils"
	"discoveryfy/internal/validation"
)

// GroupService applies partial updates to groups.
type GroupService struct {
	Groups repositories.GroupRepository
	Cache  Invalidator
}

// Update patches group id on behalf of caller, who must own or administer it.
func (s GroupService) Update(ctx context.Context, caller domain.RequestContext, id string, patch Patch) (models.Group, error) {
	if !caller.Authenticated() {
		return models.Group{}, domain.UnauthorizedError{}
	}
	g, err := s.Groups.GetByID(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if err := requireAdmin(ctx, s.Groups, g.ID, caller, "Only admins and owners can modify a group"); err != nil {
		return models.Group{}, err
	}

	if err := patch.apply(&g, "name", "description", "public_visibility", "public_membership", "who_can_create_polls"); err != nil {
		return models.Group{}, err
	}
	g.Name = utils.NormalizeSpace(g.Name)
	if err := validation.Struct(g); err != nil {
		return models.Group{}, err
	}

	g, err = s.Groups.Update(ctx, g)
	if err != nil {
		return models.Group{}, err
	}
	logging.Ctx(ctx).Info().Str("group_id", g.ID).Str("user_id", caller.UserID).Msg("group updated")
	invalidate(ctx, s.Cache, models.Groups)
	return g, nil
}

// requireAdmin checks that caller holds an owner or admin membership in groupID.
func requireAdmin(ctx context.Context, groups repositories.GroupRepository, groupID string, caller domain.RequestContext, msg string) error {
	role, err := groups.MembershipRole(ctx, groupID, caller.UserID)
	if domain.IsNotFound(err) {
		return domain.UnauthorizedError{Msg: msg}
	}
	if err != nil {
		return err
	}
	if !models.IsAdminRole(role) {
		return domain.UnauthorizedError{Msg: msg}
	}
	return nil
}
