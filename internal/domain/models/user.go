package models

import (
	"database/sql"
	"time"

	"discoveryfy/internal/resource"
)

type User struct {
	ID               string       `json:"id"`
	Username         string       `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email            string       `json:"email" validate:"required,email,max=255"`
	PasswordHash     string       `json:"-"`
	Enabled          bool         `json:"enabled"`
	PublicVisibility bool         `json:"public_visibility"`
	PublicEmail      bool         `json:"public_email"`
	Language         string       `json:"language" validate:"required,len=2"`
	Theme            string       `json:"theme" validate:"required,oneof=default dark light"`
	Rol              string       `json:"rol" validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        sql.NullTime `json:"updated_at"`
}

func (u User) RecordID() string { return u.ID }

func (u User) Attributes() []resource.Attribute {
	email := u.Email
	if !u.PublicEmail {
		email = ""
	}
	return []resource.Attribute{
		{Name: "username", Value: u.Username},
		{Name: "email", Value: email},
		{Name: "enabled", Value: u.Enabled},
		{Name: "public_visibility", Value: u.PublicVisibility},
		{Name: "public_email", Value: u.PublicEmail},
		{Name: "language", Value: u.Language},
		{Name: "theme", Value: u.Theme},
		{Name: "rol", Value: u.Rol},
		{Name: resource.CreatedAt, Value: u.CreatedAt},
		{Name: resource.UpdatedAt, Value: u.UpdatedAt},
	}
}
