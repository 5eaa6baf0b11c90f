package user

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/auth"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type Service struct {
	repo      Repository
	ids       *idgen.Generator
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(repo Repository, ids *idgen.Generator, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{repo: repo, ids: ids, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now, log: log}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflictf("username %s is taken", in.Username)
	}
	if existing, err := s.repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflictf("email %s is taken", in.Email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Validationf("%s", err)
	}

	u := &User{
		UserID:       s.ids.UserID(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.UserID).Str("role", u.Role).Msg("user created")
	return u, nil
}

// Login verifies credentials and issues a bearer token. Unknown usernames and
// wrong passwords fail identically so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, apperr.Unauthorizedf("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperr.Unauthorizedf("account is disabled")
	}

	token, err := auth.SignToken(s.jwtSecret, u.UserID, u.Username, u.Role, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.UserID).Msg("user logged in")
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Deactivate disables an account without deleting its audit trail.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, true)
}
