package driving

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// AuthService signs users in and guards protected operations.
type AuthService interface {
	// Login authenticates and persists the returned credentials.
	Login(ctx context.Context, email, password string) (*domain.Credentials, error)

	// Register creates an account and persists the returned credentials.
	// The backend's confirmation message is returned alongside.
	Register(ctx context.Context, name, email, password string) (*domain.Credentials, string, error)

	// Logout removes persisted credentials.
	Logout() error

	// Current returns the persisted credentials, or nil if signed out.
	Current() *domain.Credentials

	// RequireAuth returns the credentials or domain.ErrAuthRequired.
	RequireAuth() (*domain.Credentials, error)
}
