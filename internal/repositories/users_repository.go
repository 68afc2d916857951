package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
)

// UserRepository handles the write side of users plus credential lookups.
type UserRepository struct {
	DB *sql.DB
}

// Exists reports whether username or email is already registered.
func (r UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM `users` WHERE `username` = ? OR `email` = ?", username, email,
	).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "check user")
	}
	return count > 0, nil
}

// Create inserts a new user including its password hash.
func (r UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO `+"`users`"+` (id, username, email, password_hash, enabled, public_visibility, public_email,
			language, theme, rol, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Enabled, u.PublicVisibility, u.PublicEmail,
		u.Language, u.Theme, u.Rol, u.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

// FindByLogin loads a user by email or username, including the password hash.
func (r UserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, enabled, rol
		FROM `+"`users`"+`
		WHERE email = ? OR username = ?
		LIMIT 1`, login, login,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Enabled, &u.Rol)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: models.Users, Err: err}
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "find user")
	}
	return u, nil
}
