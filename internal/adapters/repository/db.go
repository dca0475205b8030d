package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/pkg/logger"
	"github.com/okian/devtrack/pkg/metrics"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultSQLiteDSN is a process-local in-memory database.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

// Config addresses the database. DSN, when set, wins over the discrete fields.
type Config struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Store is the gorm-backed repository.
type Store struct {
	db     *gorm.DB
	logger logger.Logger
	now    func() time.Time

	maxOpenConns    int
	connMaxLifetime time.Duration
	gormLogLevel    gormlogger.LogLevel
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{
		now:          time.Now,
		maxOpenConns: 10,
		gormLogLevel: gormlogger.Silent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(s.gormLogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return s.now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	if s.connMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.connMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	s.db = db
	if err := s.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.logger.Info(ctx, "database ready", logger.String("driver", cfg.Driver))
	return s, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverMySQL:
		dsn := cfg.DSN
		if dsn == "" {
			mc := gomysql.NewConfig()
			mc.User = cfg.User
			mc.Passwd = cfg.Password
			mc.Net = "tcp"
			mc.Addr = cfg.Host + ":" + strconv.Itoa(orDefault(cfg.Port, 3306))
			mc.DBName = cfg.Name
			mc.ParseTime = true
			mc.Loc = time.UTC
			dsn = mc.FormatDSN()
		}
		return mysql.Open(dsn), nil
	case DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.Host, orDefault(cfg.Port, 5432), cfg.User, cfg.Password, cfg.Name)
		}
		return postgres.Open(dsn), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (s *Store) migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&model.Player{}, &model.Assessment{}, &model.User{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	// MySQL compares with a case-insensitive collation by default; player names match exactly.
	if s.db.Dialector.Name() == DriverMySQL {
		if err := db.Exec("ALTER TABLE players MODIFY name VARCHAR(200) COLLATE utf8mb4_bin NOT NULL").Error; err != nil {
			return fmt.Errorf("migrate players.name collation: %w", err)
		}
	}
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// observe records the latency of a repository operation.
func observe(operation string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(operation, float64(time.Since(start).Microseconds())/1000)
}
