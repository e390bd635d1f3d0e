// Package environment reads VFW_* environment variables that override the
// preference file for a single run.
package environment

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// Overrides holds values taken from the environment.
// Pointer fields are nil when the variable is unset.
type Overrides struct {
	// Home replaces the ~/.vfw data directory.
	Home string `env:"VFW_HOME"`

	APIURL   string         `env:"VFW_API_URL"`
	Timeout  *time.Duration `env:"VFW_TIMEOUT"`
	DarkMode *bool          `env:"VFW_DARK_MODE"`
	Verbose  bool           `env:"VFW_VERBOSE" envDefault:"false"`

	// RateLimit is the sustained number of backend requests per second.
	RateLimit float64 `env:"VFW_RATE_LIMIT" envDefault:"2"`
	RateBurst int     `env:"VFW_RATE_BURST" envDefault:"4"`

	// Recorder and Player force a capture or playback tool by name.
	Recorder string `env:"VFW_RECORDER"`
	Player   string `env:"VFW_PLAYER"`
}

// Load parses the environment.
func Load() (*Overrides, error) {
	o := &Overrides{}
	if err := env.Parse(o); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if o.RateLimit <= 0 {
		return nil, fmt.Errorf("%w: VFW_RATE_LIMIT must be positive", domain.ErrInvalidInput)
	}
	if o.RateBurst < 1 {
		o.RateBurst = 1
	}
	return o, nil
}

// Apply layers the overrides onto stored settings.
func (o *Overrides) Apply(settings *domain.AppSettings) error {
	if o.APIURL != "" {
		apiURL, err := domain.NormaliseAPIURL(o.APIURL)
		if err != nil {
			return fmt.Errorf("VFW_API_URL: %w", err)
		}
		settings.APIURL = apiURL
	}
	if o.Timeout != nil {
		if *o.Timeout < 0 {
			return fmt.Errorf("%w: VFW_TIMEOUT must not be negative", domain.ErrInvalidInput)
		}
		settings.Timeout = *o.Timeout
	}
	if o.DarkMode != nil {
		settings.DarkMode = *o.DarkMode
	}
	return nil
}
