package models

import (
	"database/sql"
	"time"

	"discoveryfy/internal/resource"
)

// Group is an organization of users that runs polls.
type Group struct {
	ID                string       `json:"id"`
	Name              string       `json:"name" validate:"required,max=255"`
	Description       string       `json:"description" validate:"max=1024"`
	PublicVisibility  bool         `json:"public_visibility"`
	PublicMembership  bool         `json:"public_membership"`
	WhoCanCreatePolls string       `json:"who_can_create_polls" validate:"required,oneof=OWNERS ADMINS MEMBERS USERS"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         sql.NullTime `json:"updated_at"`
}

func (g Group) RecordID() string { return g.ID }

func (g Group) Attributes() []resource.Attribute {
	return []resource.Attribute{
		{Name: "name", Value: g.Name},
		{Name: "description", Value: g.Description},
		{Name: "public_visibility", Value: g.PublicVisibility},
		{Name: "public_membership", Value: g.PublicMembership},
		{Name: "who_can_create_polls", Value: g.WhoCanCreatePolls},
		{Name: resource.CreatedAt, Value: g.CreatedAt},
		{Name: resource.UpdatedAt, Value: g.UpdatedAt},
	}
}

// Membership links a user to a group with a role.
type Membership struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"group_id"`
	UserID    string       `json:"user_id"`
	Rol       string       `json:"rol"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt sql.NullTime `json:"updated_at"`
}

func (m Membership) RecordID() string { return m.ID }

func (m Membership) Attributes() []resource.Attribute {
	return []resource.Attribute{
		{Name: "group_id", Value: m.GroupID},
		{Name: "user_id", Value: m.UserID},
		{Name: "rol", Value: m.Rol},
		{Name: resource.CreatedAt, Value: m.CreatedAt},
		{Name: resource.UpdatedAt, Value: m.UpdatedAt},
	}
}
