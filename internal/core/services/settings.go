package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
// Stored values are layered over the defaults; environment overrides are
// applied by the caller before the service is constructed.
type SettingsService struct {
	configStore driven.ConfigStore
	defaults    domain.AppSettings
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		defaults:    domain.DefaultAppSettings(),
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.defaults
	if v := s.configStore.GetString(domain.KeyAPIURL); v != "" {
		if normalised, err := domain.NormaliseAPIURL(v); err == nil {
			settings.APIURL = normalised
		}
	}
	if _, ok := s.configStore.Get(domain.KeyTimeout); ok {
		if secs := s.configStore.GetInt(domain.KeyTimeout); secs >= 0 {
			settings.Timeout = time.Duration(secs) * time.Second
		}
	}
	settings.DarkMode = s.configStore.GetBool(domain.KeyDarkMode)
	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	apiURL, err := domain.NormaliseAPIURL(settings.APIURL)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(domain.KeyAPIURL, apiURL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	if err := s.configStore.Set(domain.KeyTimeout, int64(settings.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if err := s.configStore.Set(domain.KeyDarkMode, settings.DarkMode); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// SetAPIURL normalises and stores the backend base URL.
func (s *SettingsService) SetAPIURL(raw string) error {
	apiURL, err := domain.NormaliseAPIURL(raw)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(domain.KeyAPIURL, apiURL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	return nil
}

// SetDarkMode selects the TUI theme.
func (s *SettingsService) SetDarkMode(enabled bool) error {
	if err := s.configStore.Set(domain.KeyDarkMode, enabled); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return s.defaults
}
