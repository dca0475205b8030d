// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/okian/devtrack/internal/adapters/auth"
	"github.com/okian/devtrack/internal/adapters/mailer"
	"github.com/okian/devtrack/internal/adapters/repository"
	"github.com/okian/devtrack/internal/adapters/spreadsheet"
	"github.com/okian/devtrack/internal/domain/export"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/logger"
)

// Store is the persistence the service needs.
type Store interface {
	CreateAssessment(ctx context.Context, n model.NewAssessment) (model.AssessmentWithPlayer, bool, error)
	UpdateAssessment(ctx context.Context, id uint, scores types.Scores) (model.Assessment, error)
	ListAssessments(ctx context.Context, f repository.Filter) ([]model.AssessmentWithPlayer, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	GetPlayer(ctx context.Context, id uint) (model.Player, error)
	Counts(ctx context.Context) (model.Counts, error)

	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id uint) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context, status *types.Status) ([]model.User, error)
	DecideUser(ctx context.Context, id uint, to types.Status) (model.User, error)
	EnsureAdmin(ctx context.Context, u model.User) (model.User, bool, error)
}

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Issue(u model.User) (auth.Token, error)
	Parse(raw string) (auth.Identity, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
	// VerifyDummy costs the same as Verify and is used when no user matched.
	VerifyDummy(password string)
}

// Generator renders export tables into a workbook.
type Generator interface {
	Generate(ctx context.Context, tables []export.Table) ([]byte, error)
}

// Mailer delivers one message.
type Mailer interface {
	Send(ctx context.Context, m mailer.Message) error
}

// Service implements the API dependencies for the assessment tracker.
type Service struct {
	store     Store
	tokens    Tokens
	hasher    PasswordHasher
	revoker   auth.Revoker
	generator Generator
	mailer    Mailer
	logger    logger.Logger
	now       func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithHasher replaces the bcrypt hasher.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithRevoker sets where logged-out tokens are remembered.
func WithRevoker(r auth.Revoker) Option {
	return func(s *Service) {
		if r != nil {
			s.revoker = r
		}
	}
}

// WithGenerator replaces the xlsx generator.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithMailer sets the export email sender.
func WithMailer(m Mailer) Option {
	return func(s *Service) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, used for export dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over store and tokens.
func New(store Store, tokens Tokens, opts ...Option) *Service {
	s := &Service{
		store:     store,
		tokens:    tokens,
		hasher:    auth.NewHasher(0),
		revoker:   auth.NewMemoryRevoker(),
		generator: spreadsheet.NewGenerator(),
		mailer:    mailer.New(""),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}
