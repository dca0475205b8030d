package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/devtrack/internal/config"
	"github.com/okian/devtrack/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.JWTSecret = "test-secret"
	cfg.DBDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.DBMaxOpenConns = 1
	cfg.BcryptCost = 4
	cfg.AdminEmail = "admin@club.ie"
	cfg.AdminPassword = "admin-pass"
	return cfg
}

func TestNewApplication(t *testing.T) {
	convey.Convey("Given a sqlite backed configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig()

		convey.Convey("When the application is wired", func() {
			a, err := newApplication(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer a.Close()

			convey.Convey("Then health and docs are served", func() {
				for _, path := range []string{"/healthz", "/api-docs", "/openapi.yaml"} {
					w := httptest.NewRecorder()
					a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("Then the bootstrap admin can sign in", func() {
				w := httptest.NewRecorder()
				body := strings.NewReader(`{"email":"admin@club.ie","password":"admin-pass"}`)
				a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"role":"admin"`)
			})

			convey.Convey("Then gated routes need a token", func() {
				w := httptest.NewRecorder()
				a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusUnauthorized)
			})

			convey.Convey("Then the user metrics refresh does not panic", func() {
				convey.So(func() { updateUserMetrics(ctx, a.store) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When redis is configured but unreachable", func() {
			cfg.RedisAddr = "127.0.0.1:1"
			_, err := newApplication(ctx, cfg)

			convey.Convey("Then wiring fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "redis")
			})
		})

		convey.Convey("When the driver is unsupported", func() {
			cfg.DBDriver = "oracle"
			_, err := newApplication(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When logging is configured with json output", func() {
			cfg := testConfig()
			cfg.LogFormat = "json"

			convey.Convey("Then it should initialize", func() {
				convey.So(initLogging(cfg), convey.ShouldBeNil)
				convey.So(logger.Init(), convey.ShouldBeNil)
			})
		})
	})
}
