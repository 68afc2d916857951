package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/resource"
	"discoveryfy/internal/utils"
)

// getByID loads one row of t by primary key.
func getByID[T resource.Record](ctx context.Context, db *sql.DB, t table[T], id string) (T, error) {
	var zero T
	q, args, err := buildSelect(t.name, t.columns, resource.Filter{{Field: "id", Value: id}}, "")
	if err != nil {
		return zero, err
	}
	rec, err := t.scan(db.QueryRowContext(ctx, q+" LIMIT 1", args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.NotFoundError{Resource: t.resource, Err: err}
	}
	if err != nil {
		return zero, errors.Wrapf(err, "get %s %s", t.resource, id)
	}
	return rec, nil
}

// GroupRepository handles the write side of groups and memberships.
type GroupRepository struct {
	DB *sql.DB
}

func (r GroupRepository) GetByID(ctx context.Context, id string) (models.Group, error) {
	return getByID(ctx, r.DB, groupsTable, id)
}

// Update persists every mutable column of g and stamps updated_at.
func (r GroupRepository) Update(ctx context.Context, g models.Group) (models.Group, error) {
	g.UpdatedAt = sql.NullTime{Time: utils.NowUTC(), Valid: true}
	_, err := r.DB.ExecContext(ctx, `
		UPDATE `+"`organizations`"+` SET
			name = ?, description = ?, public_visibility = ?, public_membership = ?,
			who_can_create_polls = ?, updated_at = ?
		WHERE id = ?`,
		g.Name, g.Description, g.PublicVisibility, g.PublicMembership,
		g.WhoCanCreatePolls, g.UpdatedAt.Time, g.ID,
	)
	if err != nil {
		return g, errors.Wrapf(err, "update group %s", g.ID)
	}
	return g, nil
}

// MembershipRole returns the role of userID inside groupID.
func (r GroupRepository) MembershipRole(ctx context.Context, groupID, userID string) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT `rol` FROM `organizations_x_users` WHERE `group_id` = ? AND `user_id` = ? LIMIT 1",
		groupID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFoundError{Resource: models.Memberships, Err: err}
	}
	if err != nil {
		return "", errors.Wrap(err, "membership role")
	}
	return role, nil
}
