package driving

import "github.com/custodia-labs/vfw-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIURL normalises and stores the backend base URL.
	SetAPIURL(raw string) error

	// SetDarkMode selects the TUI theme.
	SetDarkMode(enabled bool) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
