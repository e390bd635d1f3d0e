package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default setting values.
const (
	DefaultAPIURL  = "http://localhost:5000"
	DefaultTimeout = 120 * time.Second
)

// Preference keys shared by the config store and services.
const (
	KeyAPIURL   = "api.base_url"
	KeyTimeout  = "api.timeout_seconds"
	KeyDarkMode = "ui.dark_mode"

	// AuthKeyPrefix namespaces every credential key.
	AuthKeyPrefix = "auth."
	KeyAuthToken  = AuthKeyPrefix + "token"
	KeyAuthUserID = AuthKeyPrefix + "user_id"
	KeyAuthName   = AuthKeyPrefix + "name"
	KeyAuthEmail  = AuthKeyPrefix + "email"
)

// AppSettings holds user-configurable client settings.
type AppSettings struct {
	// APIURL is the backend base URL.
	APIURL string

	// DarkMode selects the dark TUI theme.
	DarkMode bool

	// Timeout bounds each backend request. Zero disables the bound.
	Timeout time.Duration
}

// DefaultAppSettings returns settings with default values.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
}

// Validate checks that the settings are usable.
func (s AppSettings) Validate() error {
	if _, err := NormaliseAPIURL(s.APIURL); err != nil {
		return err
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidInput)
	}
	return nil
}

// NormaliseAPIURL adds a missing scheme and strips trailing slashes.
func NormaliseAPIURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: api url must not be empty", ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid api url %q", ErrInvalidInput, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ParseTimeout accepts a Go duration or a bare number of seconds.
// Zero disables the timeout.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("%w: timeout %q must not be negative", ErrInvalidInput, s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidInput, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout %q must not be negative", ErrInvalidInput, s)
	}
	return d, nil
}

// DescribeTimeout renders a timeout, with zero shown as "none".
func DescribeTimeout(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}

// ThemeName returns "dark" or "light".
func ThemeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
