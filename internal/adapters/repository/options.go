// Package repository persists players, assessments and users in a
// relational database through gorm.
package repository

import (
	"time"

	"github.com/okian/devtrack/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxOpenConns caps the connection pool. SQLite in-memory databases
// need 1 so that transactions serialize.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithConnMaxLifetime recycles pooled connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

// WithQueryLogging makes gorm log every statement.
func WithQueryLogging(enabled bool) Option {
	return func(s *Store) {
		if enabled {
			s.gormLogLevel = gormlogger.Info
		} else {
			s.gormLogLevel = gormlogger.Silent
		}
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for timestamps written by the store.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
