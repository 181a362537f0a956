package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Site
		Admin
		Auth
		ISBN
		Backup
		Debug
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Site struct {
		Name           string
		Version        string
		CopyrightOwner string
	}
	Admin struct {
		Username string
		Password string // plaintext or a bcrypt hash ($2a$/$2b$ prefix)
	}
	Auth struct {
		SessionMaxAgeDays int
		SecureCookies     bool
		CSRFSecret        string // CSRF protection is enabled when non-empty

		// Login rate limiting
		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
	ISBN struct {
		APIKey  string
		BaseURL string
	}
	Backup struct {
		Enabled  bool
		Schedule string // cron format, e.g. "0 3 * * *" = daily at 03:00
		Dir      string
	}
	Debug struct {
		Enabled bool
	}
)

// NewConfig loads configuration from an optional config.yaml in the working
// directory, with environment variable overrides (AUTH_SESSION_MAX_AGE_DAYS
// overrides auth.session_max_age_days, and so on).
func NewConfig() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8288)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.shutdown_timeout_in_seconds", 2)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("site.name", "HomeShelf")
	v.SetDefault("site.version", "dev")
	v.SetDefault("site.copyright_owner", "")
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("auth.session_max_age_days", DefaultSessionMaxAgeDays)
	v.SetDefault("auth.secure_cookies", true)
	v.SetDefault("auth.csrf_secret", "")
	v.SetDefault("auth.max_login_attempts", 5)
	v.SetDefault("auth.rate_limit_window", "15m")
	v.SetDefault("auth.lockout_duration", "30m")
	v.SetDefault("isbn.api_key", "")
	v.SetDefault("isbn.base_url", DefaultISBNBaseURL)
	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.schedule", "0 3 * * *")
	v.SetDefault("backup.dir", "./backups")
	v.SetDefault("debug.enabled", false)

	// Missing config.yaml is fine: defaults plus env cover everything.
	_ = v.ReadInConfig()

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("server.port"),
			Host: v.GetString("server.host"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("server.shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Path: v.GetString("database.path"),
		},
		Site: Site{
			Name:           v.GetString("site.name"),
			Version:        v.GetString("site.version"),
			CopyrightOwner: v.GetString("site.copyright_owner"),
		},
		Admin: Admin{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		Auth: Auth{
			SessionMaxAgeDays: v.GetInt("auth.session_max_age_days"),
			SecureCookies:     v.GetBool("auth.secure_cookies"),
			CSRFSecret:        v.GetString("auth.csrf_secret"),
			MaxLoginAttempts:  v.GetInt("auth.max_login_attempts"),
			RateLimitWindow:   v.GetDuration("auth.rate_limit_window"),
			LockoutDuration:   v.GetDuration("auth.lockout_duration"),
		},
		ISBN: ISBN{
			APIKey:  v.GetString("isbn.api_key"),
			BaseURL: v.GetString("isbn.base_url"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("backup.enabled"),
			Schedule: v.GetString("backup.schedule"),
			Dir:      v.GetString("backup.dir"),
		},
		Debug: Debug{
			Enabled: v.GetBool("debug.enabled"),
		},
	}
}

// SessionLifetime converts the configured day count into a duration.
func (a Auth) SessionLifetime() time.Duration {
	days := a.SessionMaxAgeDays
	if days <= 0 {
		days = DefaultSessionMaxAgeDays
	}
	return time.Duration(days) * 24 * time.Hour
}
