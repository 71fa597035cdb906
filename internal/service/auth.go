package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vendocs/internal/auth"
	"vendocs/internal/config"
	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// LoginResult carries the signed token and the authenticated user profile.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService defines the authentication use cases.
type AuthService interface {
	// Login verifies credentials and issues a JWT. Bad credentials fail
	// with AuthorizationError and a message that does not reveal whether
	// the account exists.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users repository.UserRepository
	cfg   config.AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &authService{users: users, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Msg: "email and password are required"}
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &AuthorizationError{Msg: "invalid credentials"}
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, &AuthorizationError{Msg: "invalid credentials"}
	}
	if !u.IsActive {
		return nil, &AuthorizationError{Msg: "account is deactivated"}
	}
	if u.RequiresLoginApproval {
		return nil, &AuthorizationError{Msg: "account pending approval"}
	}

	ttl := time.Duration(s.cfg.TokenTTLHours) * time.Hour
	token, err := auth.GenerateToken(s.cfg.JWTSecret, u, ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}
