package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/utils"
)

// PollRepository handles the write side of polls.
type PollRepository struct {
	DB *sql.DB
}

func (r PollRepository) GetByID(ctx context.Context, id string) (models.Poll, error) {
	return getByID(ctx, r.DB, pollsTable, id)
}

// Update persists every mutable column of p and stamps updated_at.
func (r PollRepository) Update(ctx context.Context, p models.Poll) (models.Poll, error) {
	p.UpdatedAt = sql.NullTime{Time: utils.NowUTC(), Valid: true}
	_, err := r.DB.ExecContext(ctx, `
		UPDATE `+"`polls`"+` SET
			name = ?, description = ?, spotify_playlist_uri = ?, start_date = ?, end_date = ?,
			public_visibility = ?, public_votes = ?, anon_can_vote = ?, who_can_add_track = ?,
			anon_votes_max_rating = ?, user_votes_max_rating = ?, multiple_user_tracks = ?,
			multiple_anon_tracks = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.SpotifyPlaylistURI, p.StartDate, p.EndDate,
		p.PublicVisibility, p.PublicVotes, p.AnonCanVote, p.WhoCanAddTrack,
		p.AnonVotesMaxRating, p.UserVotesMaxRating, p.MultipleUserTracks,
		p.MultipleAnonTracks, p.UpdatedAt.Time, p.ID,
	)
	if err != nil {
		return p, errors.Wrapf(err, "update poll %s", p.ID)
	}
	return p, nil
}
