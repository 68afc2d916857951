package repositories

import (
	"discoveryfy/internal/domain/models"
)

var usersTable = table[models.User]{
	resource: models.Users,
	name:     "users",
	columns: []string{
		"id", "username", "email", "enabled", "public_visibility", "public_email",
		"language", "theme", "rol", "created_at", "updated_at",
	},
	scan: func(sc rowScanner) (models.User, error) {
		var u models.User
		err := sc.Scan(&u.ID, &u.Username, &u.Email, &u.Enabled, &u.PublicVisibility, &u.PublicEmail,
			&u.Language, &u.Theme, &u.Rol, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	},
}

var groupsTable = table[models.Group]{
	resource: models.Groups,
	name:     "organizations",
	columns: []string{
		"id", "name", "description", "public_visibility", "public_membership",
		"who_can_create_polls", "created_at", "updated_at",
	},
	scan: func(sc rowScanner) (models.Group, error) {
		var g models.Group
		err := sc.Scan(&g.ID, &g.Name, &g.Description, &g.PublicVisibility, &g.PublicMembership,
			&g.WhoCanCreatePolls, &g.CreatedAt, &g.UpdatedAt)
		return g, err
	},
}

var membershipsTable = table[models.Membership]{
	resource: models.Memberships,
	name:     "organizations_x_users",
	columns:  []string{"id", "group_id", "user_id", "rol", "created_at", "updated_at"},
	scan: func(sc rowScanner) (models.Membership, error) {
		var m models.Membership
		err := sc.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Rol, &m.CreatedAt, &m.UpdatedAt)
		return m, err
	},
}

var pollsTable = table[models.Poll]{
	resource: models.Polls,
	name:     "polls",
	columns: []string{
		"id", "group_id", "name", "description", "spotify_playlist_uri", "start_date", "end_date",
		"public_visibility", "public_votes", "anon_can_vote", "who_can_add_track",
		"anon_votes_max_rating", "user_votes_max_rating", "multiple_user_tracks", "multiple_anon_tracks",
		"created_at", "updated_at",
	},
	scan: func(sc rowScanner) (models.Poll, error) {
		var p models.Poll
		err := sc.Scan(&p.ID, &p.GroupID, &p.Name, &p.Description, &p.SpotifyPlaylistURI, &p.StartDate, &p.EndDate,
			&p.PublicVisibility, &p.PublicVotes, &p.AnonCanVote, &p.WhoCanAddTrack,
			&p.AnonVotesMaxRating, &p.UserVotesMaxRating, &p.MultipleUserTracks, &p.MultipleAnonTracks,
			&p.CreatedAt, &p.UpdatedAt)
		return p, err
	},
}

var tracksTable = table[models.Track]{
	resource: models.Tracks,
	name:     "tracks",
	columns:  []string{"id", "poll_id", "user_id", "name", "artist", "spotify_uri", "youtube_uri", "created_at", "updated_at"},
	scan: func(sc rowScanner) (models.Track, error) {
		var t models.Track
		err := sc.Scan(&t.ID, &t.PollID, &t.UserID, &t.Name, &t.Artist, &t.SpotifyURI, &t.YoutubeURI, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
}

var votesTable = table[models.Vote]{
	resource: models.Votes,
	name:     "votes",
	columns:  []string{"id", "poll_id", "track_id", "user_id", "rate", "created_at", "updated_at"},
	scan: func(sc rowScanner) (models.Vote, error) {
		var v models.Vote
		err := sc.Scan(&v.ID, &v.PollID, &v.TrackID, &v.UserID, &v.Rate, &v.CreatedAt, &v.UpdatedAt)
		return v, err
	},
}
