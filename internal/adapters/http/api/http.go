// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/devtrack/internal/adapters/auth"
	service "github.com/okian/devtrack/internal/app"
	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/roster"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Accounts covers sign-up, sign-in and token verification.
type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (model.User, error)
	Login(ctx context.Context, in service.LoginInput) (service.Session, error)
	Authenticate(ctx context.Context, raw string) (auth.Principal, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (model.User, error)
}

// Assessments covers recording, listing and exporting assessments.
type Assessments interface {
	CreateAssessment(ctx context.Context, in service.CreateAssessmentInput) (service.CreatedAssessment, error)
	ListAssessments(ctx context.Context, team, assessor string) ([]model.AssessmentWithPlayer, error)
	UpdateAssessment(ctx context.Context, id uint, raw types.RawScores) (model.Assessment, error)
	ExportAssessments(ctx context.Context, in service.ExportInput) error
}

// Players covers the player list and history views.
type Players interface {
	ListPlayers(ctx context.Context) ([]model.Player, error)
	PlayerHistory(ctx context.Context, q service.HistoryQuery) ([]roster.ProcessedPlayer, error)
	PlayerHistoryByID(ctx context.Context, id uint) (roster.ProcessedPlayer, error)
	ExportPlayers(ctx context.Context, in service.ExportInput) error
}

// Admin covers user management.
type Admin interface {
	ListUsers(ctx context.Context, status string) ([]model.User, error)
	DecideUser(ctx context.Context, userID uint, status string) (model.User, error)
}

// StatsProvider reports table sizes.
type StatsProvider interface {
	Stats(ctx context.Context) (model.Counts, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Accounts
	Assessments
	Players
	Admin
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps               Dependencies
	log                logger.Logger
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	authHandler        *AuthHandler
	assessmentsHandler *AssessmentsHandler
	playersHandler     *PlayersHandler
	adminHandler       *AdminHandler
	ready              ReadinessCheck
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReadiness sets the check behind GET /readyz.
func WithReadiness(check ReadinessCheck) Option {
	return func(s *Server) {
		s.ready = check
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:               deps,
		statsHandler:       NewStatsHandler(deps),
		authHandler:        NewAuthHandler(deps),
		assessmentsHandler: NewAssessmentsHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		adminHandler:       NewAdminHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("http")
	}
	s.healthHandler = NewHealthHandler(s.ready)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.HandlerFunc { return Authenticate(s.deps, h) }

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(authed(s.statsHandler.HandleStats), "stats"))

	mux.HandleFunc("POST /api/auth/register", MetricsMiddleware(s.authHandler.HandleRegister, "auth_register"))
	mux.HandleFunc("POST /api/auth/login", MetricsMiddleware(s.authHandler.HandleLogin, "auth_login"))
	mux.HandleFunc("POST /api/auth/logout", MetricsMiddleware(authed(s.authHandler.HandleLogout), "auth_logout"))
	mux.HandleFunc("GET /api/auth/session", MetricsMiddleware(authed(s.authHandler.HandleSession), "auth_session"))

	mux.HandleFunc("POST /api/assessment/create", MetricsMiddleware(authed(s.assessmentsHandler.HandleCreate), "assessment_create"))
	mux.HandleFunc("GET /api/assessment/list", MetricsMiddleware(authed(s.assessmentsHandler.HandleList), "assessment_list"))
	mux.HandleFunc("POST /api/assessment/update", MetricsMiddleware(authed(s.assessmentsHandler.HandleUpdate), "assessment_update"))
	mux.HandleFunc("POST /api/assessment/export", MetricsMiddleware(authed(s.assessmentsHandler.HandleExport), "assessment_export"))

	mux.HandleFunc("GET /api/players/list", MetricsMiddleware(authed(s.playersHandler.HandleList), "players_list"))
	mux.HandleFunc("GET /api/players/history", MetricsMiddleware(authed(s.playersHandler.HandleHistory), "players_history"))
	mux.HandleFunc("GET /api/players/history/{id}", MetricsMiddleware(authed(s.playersHandler.HandleHistoryByID), "players_history_id"))
	mux.HandleFunc("POST /api/players/export", MetricsMiddleware(authed(s.playersHandler.HandleExport), "players_export"))

	mux.HandleFunc("GET /api/admin/users", MetricsMiddleware(authed(s.adminHandler.HandleUsers), "admin_users"))
	mux.HandleFunc("POST /api/admin/approve_user", MetricsMiddleware(authed(s.adminHandler.HandleApproveUser), "admin_approve_user"))
}

// Handler wraps next with request id and access log middleware.
func (s *Server) Handler(next http.Handler) http.Handler {
	return RequestID(AccessLog(s.log, next))
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err's kind onto a status and a client-safe body.
// Server-side failures are logged with their full cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: apperr.Message(err),
		Fields:  apperr.FieldErrors(err),
	})
}

func statusFor(err error) (int, string) {
	switch apperr.Kind(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest, "validation_error"
	case apperr.ErrUnauthenticated:
		return http.StatusUnauthorized, "unauthenticated"
	case apperr.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	case apperr.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case apperr.ErrExternal:
		return http.StatusBadGateway, "external_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	const op = "api.decode"

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Newf(op, apperr.ErrValidation, "request body is required")
		}
		return apperr.WrapKind(op, apperr.ErrValidation, ErrMalformedBody)
	}
	return nil
}

// parseID reads a positive integer identifier.
func parseID(raw string) (uint, error) {
	const op = "api.parse_id"

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.WrapKind(op, apperr.ErrValidation, ErrInvalidID)
	}
	return uint(n), nil
}
