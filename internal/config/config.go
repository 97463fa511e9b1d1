// Package config defines process configuration and its loading order.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Env selects runtime behaviour: "development" or "production".
	// Development uses the no-op email sender and relaxed cookies.
	Env string `koanf:"env"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BaseURL is the externally reachable origin used when building join
	// and submission links, e.g. "https://sheet.example.com".
	BaseURL string `koanf:"base_url"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// AdminID and AdminPassword are the static admin credential pair.
	AdminID       string `koanf:"admin_id"`
	AdminPassword string `koanf:"admin_password"`

	// CSRFKey is the 32-byte secret for CSRF token signing.
	CSRFKey string `koanf:"csrf_key"`

	// ResendAPIKey enables the Resend email sender when set. Without it
	// the share endpoint logs instead of sending.
	ResendAPIKey string `koanf:"resend_api_key"`

	// EmailFrom is the default sender address for shared join links.
	EmailFrom string `koanf:"email_from"`

	// RateLimitPerSecond caps requests per client IP.
	RateLimitPerSecond int `koanf:"rate_limit_per_second"`
}

// New creates a Config with development defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Env:                "development",
		Addr:               ":8080",
		BaseURL:            "http://localhost:8080",
		DBPath:             "signsheet.db",
		AdminID:            "ProlineTS",
		AdminPassword:      "Prolinets123",
		EmailFrom:          "Signsheet <noreply@localhost>",
		RateLimitPerSecond: 10,
	}
}

// IsProduction reports whether the process runs with production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
