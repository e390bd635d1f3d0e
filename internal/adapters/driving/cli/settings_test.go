package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short token", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long token", input: "eyJhbGciOiJIUzI1NiJ9", expected: "eyJh...NiJ9"},
		{name: "Empty token", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskToken(tt.input))
		})
	}
}

func testAppSettings() *domain.AppSettings {
	return &domain.AppSettings{APIURL: "http://localhost:5000", Timeout: 2 * time.Minute}
}

func TestSettingsShow(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("Get").Return(testAppSettings(), nil)
	auth := &MockAuthService{}
	auth.On("Current").Return(&domain.Credentials{Token: "token-1234567890", Name: "Asha"})

	out, err := execute(t, Services{Auth: auth, Settings: settings}, nil, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API URL:  http://localhost:5000")
	assert.Contains(t, out, "Timeout:  2m0s")
	assert.Contains(t, out, "Theme:    light")
	assert.Contains(t, out, "Account:  Asha (token toke...7890)")
}

func TestSettingsShow_SignedOut(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("Get").Return(testAppSettings(), nil)
	auth := &MockAuthService{}
	auth.On("Current").Return(nil)

	out, err := execute(t, Services{Auth: auth, Settings: settings}, nil, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Account:  (signed out)")
}

func TestSettingsShow_Error(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("Get").Return(nil, errors.New("corrupt config"))

	_, err := execute(t, Services{Settings: settings}, nil, "settings", "show")

	assert.EqualError(t, err, "failed to get settings: corrupt config")
}

func TestSettingsAPIURL(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("SetAPIURL", "https://vfw.example.org/").Return(nil)
	settings.On("Get").Return(&domain.AppSettings{APIURL: "https://vfw.example.org"}, nil)

	out, err := execute(t, Services{Settings: settings}, nil, "settings", "api-url", "https://vfw.example.org/")

	require.NoError(t, err)
	assert.Contains(t, out, "API URL set to https://vfw.example.org")
}

func TestSettingsAPIURL_Invalid(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("SetAPIURL", "ftp://x").Return(domain.ErrInvalidInput)

	_, err := execute(t, Services{Settings: settings}, nil, "settings", "api-url", "ftp://x")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsTimeout(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("Get").Return(testAppSettings(), nil)
	settings.On("Save", mock.MatchedBy(func(s *domain.AppSettings) bool {
		return s.Timeout == 90*time.Second
	})).Return(nil)

	out, err := execute(t, Services{Settings: settings}, nil, "settings", "timeout", "90")

	require.NoError(t, err)
	assert.Contains(t, out, "Timeout set to 1m30s")
	settings.AssertExpectations(t)
}

func TestSettingsTimeout_Invalid(t *testing.T) {
	_, err := execute(t, Services{Settings: &MockSettingsService{}}, nil, "settings", "timeout", "soon")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsTheme(t *testing.T) {
	settings := &MockSettingsService{}
	settings.On("SetDarkMode", true).Return(nil)

	out, err := execute(t, Services{Settings: settings}, nil, "settings", "theme", "Dark")

	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to dark")
}

func TestSettingsTheme_Unknown(t *testing.T) {
	_, err := execute(t, Services{Settings: &MockSettingsService{}}, nil, "settings", "theme", "purple")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "purple"`)
}

func TestSettingsReset(t *testing.T) {
	defaults := domain.DefaultAppSettings()
	settings := &MockSettingsService{}
	settings.On("GetDefaults").Return(defaults)
	settings.On("Save", &defaults).Return(nil)

	out, err := execute(t, Services{Settings: settings}, nil, "settings", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults")
	settings.AssertExpectations(t)
}

func TestSettings_NotConfigured(t *testing.T) {
	_, err := execute(t, Services{}, nil, "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}
