package models

import (
	"database/sql"

	"discoveryfy/internal/resource"
)

// Resource type names, also used as include names for to-many relations.
const (
	Users       = "users"
	Groups      = "groups"
	Memberships = "memberships"
	Polls       = "polls"
	Tracks      = "tracks"
	Votes       = "votes"
)

// Membership roles.
const (
	RoleOwner  = "ROLE_OWNER"
	RoleAdmin  = "ROLE_ADMIN"
	RoleMember = "ROLE_MEMBER"
	RoleUser   = "ROLE_USER"
)

// Descriptors, one per resource type. Endpoints pick the mode with As.
var (
	UsersResource = resource.Descriptor{
		Type:       Users,
		SortFields: []string{"username", "created_at"},
	}

	GroupsResource = resource.Descriptor{
		Type:       Groups,
		SortFields: []string{"name", "created_at", "updated_at"},
		Relations: []resource.Relation{
			{Name: Polls, Type: Polls, Many: true, Key: "group_id"},
			{Name: Memberships, Type: Memberships, Many: true, Key: "group_id"},
		},
		DefaultSort: "name asc",
	}

	MembershipsResource = resource.Descriptor{
		Type:       Memberships,
		SortFields: []string{"rol", "created_at"},
		Relations: []resource.Relation{
			{Name: "group", Type: Groups, Key: "group_id"},
			{Name: "user", Type: Users, Key: "user_id"},
		},
	}

	PollsResource = resource.Descriptor{
		Type:       Polls,
		SortFields: []string{"name", "start_date", "end_date", "created_at"},
		Relations: []resource.Relation{
			{Name: "group", Type: Groups, Key: "group_id"},
			{Name: Tracks, Type: Tracks, Many: true, Key: "poll_id"},
		},
		DefaultSort: "created_at desc",
	}

	TracksResource = resource.Descriptor{
		Type:       Tracks,
		SortFields: []string{"name", "artist", "created_at"},
		Relations: []resource.Relation{
			{Name: "poll", Type: Polls, Key: "poll_id"},
			{Name: "user", Type: Users, Key: "user_id"},
			{Name: Votes, Type: Votes, Many: true, Key: "track_id"},
		},
	}

	VotesResource = resource.Descriptor{
		Type:       Votes,
		SortFields: []string{"rate", "created_at"},
		Relations: []resource.Relation{
			{Name: "track", Type: Tracks, Key: "track_id"},
			{Name: "user", Type: Users, Key: "user_id"},
			{Name: "poll", Type: Polls, Key: "poll_id"},
		},
	}
)

// IsAdminRole reports whether a membership role may modify group-owned data.
func IsAdminRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

// optionalTime renders a nullable date attribute; unset dates are null.
func optionalTime(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time.Format(resource.TimeLayout)
}

// optionalString renders a nullable foreign key; unset keys are the empty string.
func optionalString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
