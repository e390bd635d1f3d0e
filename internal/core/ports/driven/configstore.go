package driven

// ConfigStore provides access to application configuration.
// It stands in for browser local storage: preferences, credentials and
// the current session id of each assistant live here.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Delete removes a configuration value.
	// Removing a missing key is not an error. The change is persisted immediately.
	Delete(key string) error

	// SetMany stores several values in one write. Nothing is stored if the
	// write fails.
	SetMany(values map[string]any) error

	// DeletePrefix removes every key starting with prefix in one write.
	DeletePrefix(prefix string) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
