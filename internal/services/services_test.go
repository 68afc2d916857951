package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/repositories"
)

const (
	groupID = "16fd2706-8baf-433b-82eb-8c7fada847da"
	pollID  = "6fa459ea-ee8a-3ca4-894e-db77e160355e"
	userID  = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
)

type recordingInvalidator struct {
	types []string
}

func (r *recordingInvalidator) Invalidate(resourceType string) error {
	r.types = append(r.types, resourceType)
	return nil
}

func newMock(t *testing.T) (sqlmock.Sqlmock, repositories.UserRepository, repositories.GroupRepository, repositories.PollRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, repositories.UserRepository{DB: db}, repositories.GroupRepository{DB: db}, repositories.PollRepository{DB: db}
}

func TestRegisterReportsEveryViolation(t *testing.T) {
	mock, users, _, _ := newMock(t)

	svc := UserService{Users: users, Cost: bcrypt.MinCost}
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ab",
		Email:    "nope",
		Password: "short",
		Theme:    "neon",
	})
	msgs, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{
		"username: must be at least 3 characters",
		"email: must be a valid email",
		"theme: must be one of [default dark light]",
		"password: must be at least 8 characters",
	}
	if strings.Join(msgs, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected messages %q", msgs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("storage must not be touched: %v", err)
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	mock, users, _, _ := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `users`").
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", sqlmock.AnyArg(), true, false, false,
			"en", "default", models.RoleUser, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	inv := &recordingInvalidator{}
	svc := UserService{Users: users, Cache: inv, Cost: bcrypt.MinCost}
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if u.ID == "" || u.Rol != models.RoleUser || !u.Enabled || u.UpdatedAt.Valid {
		t.Fatalf("unexpected user %#v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")) != nil {
		t.Fatalf("password hash does not match")
	}
	if len(inv.types) != 1 || inv.types[0] != models.Users {
		t.Fatalf("expected users invalidation, got %v", inv.types)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	mock, users, _, _ := newMock(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := UserService{Users: users, Cost: bcrypt.MinCost}.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	msgs, ok := domain.AsValidation(err)
	if !ok || len(msgs) != 1 || msgs[0] != "Username or email already registered" {
		t.Fatalf("unexpected error %v", err)
	}
}

func expectLogin(mock sqlmock.Sqlmock, password string, enabled bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	mock.ExpectQuery("FROM `users`").
		WithArgs("alice", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "enabled", "rol"}).
			AddRow(userID, "alice", "alice@example.com", string(hash), enabled, models.RoleUser))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	mock, users, _, _ := newMock(t)
	expectLogin(mock, "correct horse", true)

	svc := AuthService{Users: users, Secret: []byte("test-secret"), TTL: time.Hour}
	session, err := svc.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if session.UserID != userID || session.Token == "" {
		t.Fatalf("unexpected session %#v", session)
	}
	if session.ExpiresAt.Before(time.Now().Add(59 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", session.ExpiresAt)
	}

	caller, err := svc.ParseToken(session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if caller.UserID != userID || caller.Role != models.RoleUser {
		t.Fatalf("unexpected caller %#v", caller)
	}

	other := AuthService{Secret: []byte("other-secret")}
	if _, err := other.ParseToken(session.Token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for foreign secret, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	mock, users, _, _ := newMock(t)
	expectLogin(mock, "correct horse", true)
	expectLogin(mock, "correct horse", false)

	svc := AuthService{Users: users, Secret: []byte("test-secret")}
	if _, err := svc.Login(context.Background(), "alice", "wrong"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "correct horse"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for disabled user, got %v", err)
	}
}

var groupCols = []string{"id", "name", "description", "public_visibility", "public_membership", "who_can_create_polls", "created_at", "updated_at"}

func expectGroup(mock sqlmock.Sqlmock, role string) {
	mock.ExpectQuery("FROM `organizations` WHERE `id` = \\? LIMIT 1").
		WithArgs(groupID).
		WillReturnRows(sqlmock.NewRows(groupCols).
			AddRow(groupID, "Friday", "weekly mix", true, false, "ADMINS", time.Now(), nil))
	mock.ExpectQuery("SELECT `rol` FROM `organizations_x_users`").
		WithArgs(groupID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"rol"}).AddRow(role))
}

func TestGroupUpdateRequiresCaller(t *testing.T) {
	_, _, groups, _ := newMock(t)
	_, err := GroupService{Groups: groups}.Update(context.Background(), domain.RequestContext{}, groupID, Patch{})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGroupUpdateRejectsMembers(t *testing.T) {
	mock, _, groups, _ := newMock(t)
	expectGroup(mock, models.RoleMember)

	_, err := GroupService{Groups: groups}.Update(context.Background(),
		domain.RequestContext{UserID: userID}, groupID, Patch{"name": []byte(`"x"`)})
	if !domain.IsUnauthorized(err) || err.Error() != "Only admins and owners can modify a group" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGroupUpdateAppliesPresentKeysOnly(t *testing.T) {
	mock, _, groups, _ := newMock(t)
	expectGroup(mock, models.RoleOwner)
	mock.ExpectExec("UPDATE `organizations`").
		WithArgs("Renamed", "weekly mix", true, false, "ADMINS", sqlmock.AnyArg(), groupID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inv := &recordingInvalidator{}
	patch, err := DecodePatch([]byte(`{"name":"Renamed","id":"hijack","created_at":"2000-01-01"}`))
	if err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	g, err := GroupService{Groups: groups, Cache: inv}.Update(context.Background(),
		domain.RequestContext{UserID: userID}, groupID, patch)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if g.ID != groupID || g.Name != "Renamed" || !g.UpdatedAt.Valid {
		t.Fatalf("unexpected group %#v", g)
	}
	if len(inv.types) != 1 || inv.types[0] != models.Groups {
		t.Fatalf("expected groups invalidation, got %v", inv.types)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupUpdateValidation(t *testing.T) {
	mock, _, groups, _ := newMock(t)
	expectGroup(mock, models.RoleAdmin)

	_, err := GroupService{Groups: groups}.Update(context.Background(),
		domain.RequestContext{UserID: userID}, groupID,
		Patch{"name": []byte(`""`), "who_can_create_polls": []byte(`"EVERYONE"`)})
	msgs, ok := domain.AsValidation(err)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected two validation messages, got %v", err)
	}
}

func TestPollUpdateDates(t *testing.T) {
	mock, _, groups, polls := newMock(t)
	cols := []string{"id", "group_id", "name", "description", "spotify_playlist_uri", "start_date", "end_date",
		"public_visibility", "public_votes", "anon_can_vote", "who_can_add_track",
		"anon_votes_max_rating", "user_votes_max_rating", "multiple_user_tracks", "multiple_anon_tracks",
		"created_at", "updated_at"}
	mock.ExpectQuery("FROM `polls` WHERE `id` = \\? LIMIT 1").
		WithArgs(pollID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(pollID, groupID, "Party", "", "", nil, nil,
			true, false, false, "MEMBERS", 1, 3, true, false, time.Now(), nil))
	mock.ExpectQuery("SELECT `rol` FROM `organizations_x_users`").
		WithArgs(groupID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"rol"}).AddRow(models.RoleAdmin))

	_, err := PollService{Polls: polls, Groups: groups}.Update(context.Background(),
		domain.RequestContext{UserID: userID}, pollID,
		Patch{"start_date": []byte(`"2024-06-02"`), "end_date": []byte(`"2024-06-01T10:00:00+00:00"`)})
	msgs, ok := domain.AsValidation(err)
	if !ok || len(msgs) != 1 || msgs[0] != "end_date: must not be before start_date" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDecodePatchRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `[]`, `null`, `"x"`} {
		if _, err := DecodePatch([]byte(body)); !domain.IsBadRequest(err) {
			t.Fatalf("body %q: expected bad request, got %v", body, err)
		}
	}
}
