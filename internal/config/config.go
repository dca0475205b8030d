// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Supported values.
var (
	drivers    = []string{"mysql", "postgres", "sqlite"}
	logFormats = []string{"text", "json"}
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogFile, when set, also writes logs to a rotating file.
	LogFile          string `koanf:"log_file"`
	LogFileMaxSizeMB int    `koanf:"log_file_max_size_mb"`
	LogFileBackups   int    `koanf:"log_file_backups"`
	LogFileMaxAgeDay int    `koanf:"log_file_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Database. DBDSN wins over the discrete connection fields.
	DBDriver          string        `koanf:"db_driver"`
	DBDSN             string        `koanf:"db_dsn"`
	DBHost            string        `koanf:"db_host"`
	DBPort            int           `koanf:"db_port"`
	DBUser            string        `koanf:"db_user"`
	DBPassword        string        `koanf:"db_password"`
	DBName            string        `koanf:"db_name"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`
	DBQueryLog        bool          `koanf:"db_query_log"`

	// Tokens.
	JWTSecret  string        `koanf:"jwt_secret"`
	JWTIssuer  string        `koanf:"jwt_issuer"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`

	// RedisAddr enables shared token revocation when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Export email delivery. Exports fail while EmailAPIKey is empty.
	EmailAPIKey   string `koanf:"email_api_key"`
	EmailAPIHost  string `koanf:"email_api_host"`
	EmailFrom     string `koanf:"email_from"`
	EmailFromName string `koanf:"email_from_name"`

	// ExportColumnWidth is the xlsx data column width.
	ExportColumnWidth float64 `koanf:"export_column_width"`

	// Bootstrap admin, created on start when AdminEmail is set.
	AdminEmail       string `koanf:"admin_email"`
	AdminPassword    string `koanf:"admin_password"`
	AdminDisplayName string `koanf:"admin_display_name"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		LogFileMaxSizeMB:  100,
		LogFileBackups:    5,
		LogFileMaxAgeDay:  28,
		Addr:              ":8080",
		ShutdownTimeout:   10 * time.Second,
		DBDriver:          "sqlite",
		DBDSN:             "devtrack.db",
		DBMaxOpenConns:    10,
		DBConnMaxLifetime: 30 * time.Minute,
		JWTIssuer:         "devtrack",
		TokenTTL:          24 * time.Hour,
		EmailAPIHost:      "https://api.sendgrid.com",
		EmailFrom:         "noreply@floot.app",
		EmailFromName:     "Player Development App",
		ExportColumnWidth: 20,
		AdminDisplayName:  "Administrator",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.JWTSecret == "":
		return fmt.Errorf("%w: jwt_secret must not be empty", ErrInvalidConfig)
	case !slices.Contains(drivers, c.DBDriver):
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDSN == "" && c.DBDriver != "sqlite" && c.DBHost == "":
		return fmt.Errorf("%w: db_dsn or db_host is required for %s", ErrInvalidConfig, c.DBDriver)
	case c.TokenTTL <= 0:
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	case !slices.Contains(logFormats, c.LogFormat):
		return fmt.Errorf("%w: unsupported log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.AdminEmail != "" && len(c.AdminPassword) < 8:
		return fmt.Errorf("%w: admin_password must be at least 8 characters", ErrInvalidConfig)
	}
	return nil
}
