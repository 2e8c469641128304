package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Notifier NotifierConfig `mapstructure:"notifier" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes is the access token lifetime.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// RefreshTokenLifetimeMinutes is the refresh token lifetime.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// NotifierConfig controls the background loan notifier.
type NotifierConfig struct {
	// IntervalMinutes is how often the notifier re-derives loan
	// notifications. The deriver is idempotent per calendar day, so running
	// it more often than daily only catches loans created since the last
	// pass.
	IntervalMinutes int `mapstructure:"interval_minutes" validate:"required,gt=0"`
}
