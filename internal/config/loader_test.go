package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/devtrack/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("DEVTRACK_JWT_SECRET", "s3cret")
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "s3cret")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DEVTRACK_ADDR", ":9090")
			_ = os.Setenv("DEVTRACK_DB_DRIVER", "mysql")
			_ = os.Setenv("DEVTRACK_DB_HOST", "db.internal")
			_ = os.Setenv("DEVTRACK_DB_PORT", "3307")
			_ = os.Setenv("DEVTRACK_TOKEN_TTL", "2h")
			_ = os.Setenv("DEVTRACK_DB_QUERY_LOG", "true")
			_ = os.Setenv("DEVTRACK_DB_CONN_MAX_LIFETIME", "5m")
			_ = os.Setenv("DEVTRACK_EXPORT_COLUMN_WIDTH", "32")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "mysql")
				convey.So(cfg.DBHost, convey.ShouldEqual, "db.internal")
				convey.So(cfg.DBPort, convey.ShouldEqual, 3307)
				convey.So(cfg.TokenTTL, convey.ShouldEqual, 2*time.Hour)
				convey.So(cfg.DBQueryLog, convey.ShouldBeTrue)
				convey.So(cfg.DBConnMaxLifetime, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.ExportColumnWidth, convey.ShouldEqual, 32.0)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# local development
addr: ":7070"
log_format: json
email_api_key: SG.key  # inline comment
admin_email: admin@club.ie
admin_password: admin-pass
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DEVTRACK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.EmailAPIKey, convey.ShouldEqual, "SG.key")
				convey.So(cfg.AdminEmail, convey.ShouldEqual, "admin@club.ie")
				convey.So(cfg.EmailFrom, convey.ShouldEqual, "noreply@floot.app") // From defaults
			})

			convey.Convey("And environment variables should override file values", func() {
				_ = os.Setenv("DEVTRACK_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DEVTRACK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DEVTRACK_CONFIG", "/non/existent/devtrack.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loaded config is invalid", func() {
			tmpFile := createTempConfigFile("addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DEVTRACK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DEVTRACK_CONFIG",
		"DEVTRACK_ADDR",
		"DEVTRACK_JWT_SECRET",
		"DEVTRACK_DB_DRIVER",
		"DEVTRACK_DB_HOST",
		"DEVTRACK_DB_PORT",
		"DEVTRACK_TOKEN_TTL",
		"DEVTRACK_DB_QUERY_LOG",
		"DEVTRACK_DB_CONN_MAX_LIFETIME",
		"DEVTRACK_EXPORT_COLUMN_WIDTH",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "devtrack-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
