package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/repositories"
	"discoveryfy/internal/utils"
)

const invalidCredentials = "Invalid credentials"

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
}

// AuthService issues and verifies HS256 access tokens.
type AuthService struct {
	Users  repositories.UserRepository
	Secret []byte
	TTL    time.Duration
}

// Login checks the password of the user identified by login (email or username).
func (s AuthService) Login(ctx context.Context, login, password string) (Session, error) {
	u, err := s.Users.FindByLogin(ctx, utils.TrimOrEmpty(login))
	if domain.IsNotFound(err) {
		return Session{}, domain.UnauthorizedError{Msg: invalidCredentials}
	}
	if err != nil {
		return Session{}, err
	}
	if !u.Enabled {
		return Session{}, domain.UnauthorizedError{Msg: invalidCredentials}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, domain.UnauthorizedError{Msg: invalidCredentials}
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := time.Now().Add(ttl).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Rol,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return Session{}, errors.Wrap(err, "sign token")
	}
	return Session{Token: signed, ExpiresAt: exp.UTC(), UserID: u.ID}, nil
}

// ParseToken verifies raw and returns the caller it identifies.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "Invalid or expired token"}
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "Invalid or expired token"}
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}
	return domain.RequestContext{UserID: sub, Role: role}, nil
}
