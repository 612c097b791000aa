package driving

import "github.com/custodia-labs/ragent/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the persisted settings merged over defaults.
	// Credentials are not part of persisted settings.
	Get() (*domain.Settings, error)

	// Set validates and persists a single dotted key (e.g. "chunking.size").
	Set(key, value string) error

	// Reset removes a key so its default applies again.
	Reset(key string) error

	// Keys returns every settable key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
