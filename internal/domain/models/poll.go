package models

import (
	"database/sql"
	"time"

	"discoveryfy/internal/resource"
)

type Poll struct {
	ID                 string       `json:"id"`
	GroupID            string       `json:"group_id"`
	Name               string       `json:"name" validate:"required,max=255"`
	Description        string       `json:"description" validate:"max=1024"`
	SpotifyPlaylistURI string       `json:"spotify_playlist_uri" validate:"omitempty,startswith=spotify:playlist:"`
	StartDate          sql.NullTime `json:"start_date"`
	EndDate            sql.NullTime `json:"end_date"`
	PublicVisibility   bool         `json:"public_visibility"`
	PublicVotes        bool         `json:"public_votes"`
	AnonCanVote        bool         `json:"anon_can_vote"`
	WhoCanAddTrack     string       `json:"who_can_add_track" validate:"required,oneof=OWNERS ADMINS MEMBERS USERS ANYONE"`
	AnonVotesMaxRating int          `json:"anon_votes_max_rating" validate:"min=0,max=10"`
	UserVotesMaxRating int          `json:"user_votes_max_rating" validate:"min=0,max=10"`
	MultipleUserTracks bool         `json:"multiple_user_tracks"`
	MultipleAnonTracks bool         `json:"multiple_anon_tracks"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          sql.NullTime `json:"updated_at"`
}

func (p Poll) RecordID() string { return p.ID }

func (p Poll) Attributes() []resource.Attribute {
	return []resource.Attribute{
		{Name: "group_id", Value: p.GroupID},
		{Name: "name", Value: p.Name},
		{Name: "description", Value: p.Description},
		{Name: "spotify_playlist_uri", Value: p.SpotifyPlaylistURI},
		{Name: "start_date", Value: optionalTime(p.StartDate)},
		{Name: "end_date", Value: optionalTime(p.EndDate)},
		{Name: "public_visibility", Value: p.PublicVisibility},
		{Name: "public_votes", Value: p.PublicVotes},
		{Name: "anon_can_vote", Value: p.AnonCanVote},
		{Name: "who_can_add_track", Value: p.WhoCanAddTrack},
		{Name: "anon_votes_max_rating", Value: p.AnonVotesMaxRating},
		{Name: "user_votes_max_rating", Value: p.UserVotesMaxRating},
		{Name: "multiple_user_tracks", Value: p.MultipleUserTracks},
		{Name: "multiple_anon_tracks", Value: p.MultipleAnonTracks},
		{Name: resource.CreatedAt, Value: p.CreatedAt},
		{Name: resource.UpdatedAt, Value: p.UpdatedAt},
	}
}
