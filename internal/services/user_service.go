package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/domain/models"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/repositories"
	"discoveryfy/internal/utils"
	"discoveryfy/internal/validation"
)

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	PublicVisibility bool   `json:"public_visibility"`
	PublicEmail      bool   `json:"public_email"`
	Language         string `json:"language"`
	Theme            string `json:"theme"`
}

// UserService creates accounts.
type UserService struct {
	Users repositories.UserRepository
	Cache Invalidator
	// Cost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	Cost int
}

// Register validates in, stores a new user and returns it. Every violated
// rule is reported as one entry of a domain.ValidationErrors.
func (s UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	u := models.User{
		ID:               uuid.NewString(),
		Username:         utils.TrimOrEmpty(in.Username),
		Email:            strings.ToLower(utils.TrimOrEmpty(in.Email)),
		Enabled:          true,
		PublicVisibility: in.PublicVisibility,
		PublicEmail:      in.PublicEmail,
		Language:         defaultString(strings.ToLower(utils.TrimOrEmpty(in.Language)), "en"),
		Theme:            defaultString(utils.TrimOrEmpty(in.Theme), "default"),
		Rol:              models.RoleUser,
		CreatedAt:        utils.NowUTC(),
	}

	var violations domain.ValidationErrors
	if err := collect(&violations, validation.Struct(u)); err != nil {
		return models.User{}, err
	}
	if err := collect(&violations, validation.Var("password", in.Password, "required,min=8,max=72")); err != nil {
		return models.User{}, err
	}
	if len(violations) > 0 {
		return models.User{}, violations
	}

	exists, err := s.Users.Exists(ctx, u.Username, u.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, domain.ValidationErrors{{Msg: "Username or email already registered"}}
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "hash password")
	}
	u.PasswordHash = string(hash)

	if err := s.Users.Create(ctx, u); err != nil {
		return models.User{}, err
	}
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("user registered")
	invalidate(ctx, s.Cache, models.Users)
	return u, nil
}

// collect appends validation failures to list and passes any other error through.
func collect(list *domain.ValidationErrors, err error) error {
	if err == nil {
		return nil
	}
	var v domain.ValidationErrors
	if errors.As(err, &v) {
		*list = append(*list, v...)
		return nil
	}
	var single domain.ValidationError
	if errors.As(err, &single) {
		*list = append(*list, single)
		return nil
	}
	return err
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
