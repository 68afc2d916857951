package models

import (
	"database/sql"
	"time"

	"discoveryfy/internal/resource"
)

// Track is a song proposed to a poll. Anonymous proposals have no user.
type Track struct {
	ID         string         `json:"id"`
	PollID     string         `json:"poll_id"`
	UserID     sql.NullString `json:"user_id"`
	Name       string         `json:"name"`
	Artist     string         `json:"artist"`
	SpotifyURI string         `json:"spotify_uri"`
	YoutubeURI string         `json:"youtube_uri"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  sql.NullTime   `json:"updated_at"`
}

func (t Track) RecordID() string { return t.ID }

func (t Track) Attributes() []resource.Attribute {
	return []resource.Attribute{
		{Name: "poll_id", Value: t.PollID},
		{Name: "user_id", Value: optionalString(t.UserID)},
		{Name: "name", Value: t.Name},
		{Name: "artist", Value: t.Artist},
		{Name: "spotify_uri", Value: t.SpotifyURI},
		{Name: "youtube_uri", Value: t.YoutubeURI},
		{Name: resource.CreatedAt, Value: t.CreatedAt},
		{Name: resource.UpdatedAt, Value: t.UpdatedAt},
	}
}

// Vote is a rating given to a track.
type Vote struct {
	ID        string         `json:"id"`
	PollID    string         `json:"poll_id"`
	TrackID   string         `json:"track_id"`
	UserID    sql.NullString `json:"user_id"`
	Rate      int            `json:"rate"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt sql.NullTime   `json:"updated_at"`
}

func (v Vote) RecordID() string { return v.ID }

func (v Vote) Attributes() []resource.Attribute {
	return []resource.Attribute{
		{Name: "poll_id", Value: v.PollID},
		{Name: "track_id", Value: v.TrackID},
		{Name: "user_id", Value: optionalString(v.UserID)},
		{Name: "rate", Value: v.Rate},
		{Name: resource.CreatedAt, Value: v.CreatedAt},
		{Name: resource.UpdatedAt, Value: v.UpdatedAt},
	}
}
