package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService signs users in against the backend and keeps their
// credentials in the preference store.
type AuthService struct {
	backend driven.Backend
	config  driven.ConfigStore
}

// NewAuthService creates a new auth service.
func NewAuthService(backend driven.Backend, config driven.ConfigStore) *AuthService {
	return &AuthService{
		backend: backend,
		config:  config,
	}
}

// Login authenticates and persists the returned credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	req := domain.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	result, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	creds := s.complete(result, "", req.Email)
	if err := s.persist(creds); err != nil {
		return nil, err
	}
	logger.Info("signed in as %s", creds.DisplayName())
	return creds, nil
}

// Register creates an account and persists the returned credentials.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Credentials, string, error) {
	req := domain.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	if s.backend == nil {
		return nil, "", domain.ErrNotImplemented
	}
	result, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	creds := s.complete(result, req.Name, req.Email)
	if creds.Token != "" {
		if err := s.persist(creds); err != nil {
			return nil, "", err
		}
	}
	return creds, result.Message, nil
}

// Logout removes persisted credentials.
func (s *AuthService) Logout() error {
	if err := s.config.DeletePrefix(domain.AuthKeyPrefix); err != nil {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Current returns the persisted credentials, or nil if signed out.
func (s *AuthService) Current() *domain.Credentials {
	creds := &domain.Credentials{
		Token:  s.config.GetString(domain.KeyAuthToken),
		UserID: s.config.GetString(domain.KeyAuthUserID),
		Name:   s.config.GetString(domain.KeyAuthName),
		Email:  s.config.GetString(domain.KeyAuthEmail),
	}
	if !creds.IsAuthenticated() {
		return nil
	}
	return creds
}

// RequireAuth returns the credentials or domain.ErrAuthRequired.
func (s *AuthService) RequireAuth() (*domain.Credentials, error) {
	creds := s.Current()
	if creds == nil {
		return nil, domain.ErrAuthRequired
	}
	return creds, nil
}

// complete fills fields the backend left out from the submitted form.
func (s *AuthService) complete(result *domain.AuthResult, name, email string) *domain.Credentials {
	creds := result.Credentials
	if creds.Name == "" {
		creds.Name = name
	}
	if creds.Email == "" {
		creds.Email = email
	}
	return &creds
}

func (s *AuthService) persist(creds *domain.Credentials) error {
	err := s.config.SetMany(map[string]any{
		domain.KeyAuthToken:  creds.Token,
		domain.KeyAuthUserID: creds.UserID,
		domain.KeyAuthName:   creds.Name,
		domain.KeyAuthEmail:  creds.Email,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
