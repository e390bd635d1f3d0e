// Package tui provides an interactive terminal user interface for vfw.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Auth exposes the signed-in user.
	Auth driving.AuthService

	// Sessions lists and persists chat history.
	Sessions driving.SessionService

	// Chat sends messages to the legal assistants.
	Chat driving.ChatService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Dashboard summarises the user's activity.
	Dashboard driving.DashboardService

	// Playback plays spoken answers.
	Playback driving.PlaybackService

	// Changes signals that persisted data changed outside the TUI.
	// Optional; nil disables live refresh.
	Changes <-chan struct{}
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(chat driving.ChatService, sessions driving.SessionService) *Ports {
	return &Ports{
		Chat:     chat,
		Sessions: sessions,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
