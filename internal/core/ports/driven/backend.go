package driven

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// Backend is the remote Voice for the Weak API.
// Every call is a single request; there is no retry or token refresh.
type Backend interface {
	// Login exchanges email and password for credentials.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)

	// Register creates an account and returns its credentials.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error)

	// RecommendSchemes returns government schemes matching a profile.
	RecommendSchemes(ctx context.Context, token string, req domain.SchemeRequest) ([]domain.SchemeRecommendation, error)

	// SendAudio posts an audio query to the assistant's endpoint.
	SendAudio(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)

	// BaseURL returns the API base URL requests are sent to.
	BaseURL() string
}
