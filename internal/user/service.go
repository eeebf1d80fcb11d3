package user

import (
	"context"
	"errors"
	"strings"

	"sportslot/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*User, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
