// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
	// Kind selects the assistant when View is ViewChat.
	Kind domain.AssistantKind
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the assistant conversation view.
	ViewChat
	// ViewDashboard shows the signed-in user and history counts.
	ViewDashboard
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDashboard:
		return "dashboard"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SessionsLoaded carries the stored history for one assistant.
type SessionsLoaded struct {
	Kind      domain.AssistantKind
	Sessions  []domain.ChatSession
	CurrentID string
}

// ReplyReceived carries the session after a send, edit or reload.
type ReplyReceived struct {
	Kind    domain.AssistantKind
	Session *domain.ChatSession
	Err     error
}

// SessionChanged signals a new, renamed, switched or deleted session.
type SessionChanged struct {
	Kind    domain.AssistantKind
	Session *domain.ChatSession
	Err     error
}

// RecordingStarted signals the microphone capture began.
type RecordingStarted struct {
	Err error
}

// RecordingStopped carries the captured clip.
type RecordingStopped struct {
	Audio *domain.AudioAttachment
	Err   error
}

// AttachmentLoaded carries an audio file read from disk.
type AttachmentLoaded struct {
	Audio *domain.AudioAttachment
	Err   error
}

// PlaybackFinished signals an audio player exited.
type PlaybackFinished struct {
	Err error
}

// DataChanged signals another process modified persisted history.
type DataChanged struct{}

// DashboardLoaded carries the dashboard summary.
type DashboardLoaded struct {
	Summary *domain.DashboardSummary
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
