package driven

// ConfigStore provides persistent configuration storage.
// Keys use dot notation for nested values (e.g. "search.semantic_weight").
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, empty when unset.
	GetString(key string) string

	// GetInt retrieves an integer value, zero when unset.
	GetInt(key string) int

	// GetFloat retrieves a float value, zero when unset.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, false when unset.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, nil when unset.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads configuration from the backing store.
	Load() error

	// Path returns the backing file path.
	Path() string
}
