package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// ErrCredentialsRequired is returned when a login form is incomplete.
var ErrCredentialsRequired = errors.New("email and password are required")

// ErrRegistrationIncomplete is returned when a registration form is incomplete.
var ErrRegistrationIncomplete = errors.New("name, email and password are required")

// AuthService handles login and registration against the upstream API.
type AuthService struct {
	api port.AuthAPI
}

// NewAuthService creates a new authentication service.
func NewAuthService(api port.AuthAPI) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	res, err := s.api.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	slog.Info("user authenticated", "user", res.Name)
	return res, nil
}

// Register creates an upstream account. The caller logs in separately.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) error {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return ErrRegistrationIncomplete
	}
	if err := s.api.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	slog.Info("user registered", "user", reg.Name)
	return nil
}
