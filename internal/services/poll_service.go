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

// PollService applies partial updates to polls.
type PollService struct {
	Polls  repositories.PollRepository
	Groups repositories.GroupRepository
	Cache  Invalidator
}

// Update patches poll id on behalf of caller, who must own or administer the poll's group.
func (s PollService) Update(ctx context.Context, caller domain.RequestContext, id string, patch Patch) (models.Poll, error) {
	if !caller.Authenticated() {
		return models.Poll{}, domain.UnauthorizedError{}
	}
	p, err := s.Polls.GetByID(ctx, id)
	if err != nil {
		return models.Poll{}, err
	}
	if err := requireAdmin(ctx, s.Groups, p.GroupID, caller, "Only admins and owners can modify a poll"); err != nil {
		return models.Poll{}, err
	}

	err = patch.apply(&p,
		"name", "description", "spotify_playlist_uri",
		"public_visibility", "public_votes", "anon_can_vote", "who_can_add_track",
		"anon_votes_max_rating", "user_votes_max_rating",
		"multiple_user_tracks", "multiple_anon_tracks",
	)
	if err != nil {
		return models.Poll{}, err
	}
	p.Name = utils.NormalizeSpace(p.Name)

	var violations domain.ValidationErrors
	if err := collect(&violations, patch.applyTime(&p.StartDate, "start_date")); err != nil {
		return models.Poll{}, err
	}
	if err := collect(&violations, patch.applyTime(&p.EndDate, "end_date")); err != nil {
		return models.Poll{}, err
	}
	if err := collect(&violations, validation.Struct(p)); err != nil {
		return models.Poll{}, err
	}
	if p.StartDate.Valid && p.EndDate.Valid && p.EndDate.Time.Before(p.StartDate.Time) {
		violations = append(violations, domain.ValidationError{Field: "end_date", Msg: "must not be before start_date"})
	}
	if len(violations) > 0 {
		return models.Poll{}, violations
	}

	p, err = s.Polls.Update(ctx, p)
	if err != nil {
		return models.Poll{}, err
	}
	logging.Ctx(ctx).Info().Str("poll_id", p.ID).Str("user_id", caller.UserID).Msg("poll updated")
	invalidate(ctx, s.Cache, models.Polls)
	return p, nil
}
