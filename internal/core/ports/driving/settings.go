package driving

import "github.com/custodia-labs/yonerge/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings: defaults, overlaid by the config file,
	// overlaid by the environment.
	Get() (*domain.AppSettings, error)

	// Set persists a single dot-notation key to the config file.
	Set(key string, value any) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
