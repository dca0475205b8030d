package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/devtrack/internal/adapters/auth"
	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/logger"
	"github.com/okian/devtrack/pkg/metrics"
)

// RegisterInput is a self-service sign-up.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=200"`
}

// LoginInput is an email and password pair.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	Token auth.Token
	User  model.User
}

// Register creates a pending user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	const op = "service.register"

	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := checkStruct(in).Err(); err != nil {
		return model.User{}, apperr.Wrap(op, err)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	u, err := s.store.CreateUser(ctx, model.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		Role:         types.RoleUser,
		Status:       types.StatusPending,
	})
	if err != nil {
		return model.User{}, apperr.Wrap(op, err)
	}
	s.logger.Info(ctx, "user registered", logger.Uint("user_id", u.ID))
	return u, nil
}

// Login checks credentials and issues a token. Pending users may sign in
// but cannot use gated operations; rejected users are refused.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	const op = "service.login"

	if err := checkStruct(in).Err(); err != nil {
		metrics.RecordLogin("invalid")
		return Session{}, apperr.Wrap(op, err)
	}
	u, err := s.store.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.hasher.VerifyDummy(in.Password)
		metrics.RecordLogin("denied")
		return Session{}, apperr.WrapKind(op, apperr.ErrUnauthenticated, auth.ErrInvalidCredentials)
	case err != nil:
		return Session{}, apperr.Wrap(op, err)
	}
	if err := s.hasher.Verify(u.PasswordHash, in.Password); err != nil {
		metrics.RecordLogin("denied")
		return Session{}, apperr.WrapKind(op, apperr.ErrUnauthenticated, auth.ErrInvalidCredentials)
	}
	if u.Status == types.StatusRejected {
		metrics.RecordLogin("rejected")
		return Session{}, apperr.Newf(op, apperr.ErrForbidden, "account was rejected")
	}

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	metrics.RecordLogin("success")
	s.logger.Info(ctx, "user logged in", logger.Uint("user_id", u.ID), logger.String("status", string(u.Status)))
	return Session{Token: tok, User: u}, nil
}

// Authenticate verifies a bearer token and loads its user, so role and
// approval changes apply to tokens issued earlier.
func (s *Service) Authenticate(ctx context.Context, raw string) (auth.Principal, error) {
	const op = "service.authenticate"

	id, err := s.tokens.Parse(raw)
	if err != nil {
		return auth.Principal{}, apperr.WrapKind(op, apperr.ErrUnauthenticated, auth.ErrInvalidToken)
	}
	revoked, err := s.revoker.Revoked(ctx, id.TokenID)
	if err != nil {
		s.logger.Error(ctx, "revocation lookup failed", logger.Error(err))
		return auth.Principal{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	if revoked {
		return auth.Principal{}, apperr.WrapKind(op, apperr.ErrUnauthenticated, auth.ErrTokenRevoked)
	}
	u, err := s.store.GetUser(ctx, id.UserID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return auth.Principal{}, apperr.WrapKind(op, apperr.ErrUnauthenticated, auth.ErrInvalidToken)
	case err != nil:
		return auth.Principal{}, apperr.Wrap(op, err)
	}
	return auth.NewPrincipal(u, id), nil
}

// Logout revokes the caller's token until it expires.
func (s *Service) Logout(ctx context.Context) error {
	const op = "service.logout"

	p, ok := auth.FromContext(ctx)
	if !ok {
		return apperr.New(op, apperr.ErrUnauthenticated)
	}
	if err := s.revoker.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return nil
}

// CurrentUser returns the caller's account.
func (s *Service) CurrentUser(ctx context.Context) (model.User, error) {
	const op = "service.current_user"

	p, ok := auth.FromContext(ctx)
	if !ok {
		return model.User{}, apperr.New(op, apperr.ErrUnauthenticated)
	}
	u, err := s.store.GetUser(ctx, p.UserID)
	return u, apperr.Wrap(op, err)
}

// BootstrapAdmin makes sure an approved admin with email exists.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password, displayName string) error {
	const op = "service.bootstrap_admin"

	if email == "" {
		return nil
	}
	if displayName == "" {
		displayName = "Administrator"
	}
	if len(password) < 8 {
		v := apperr.NewValidation()
		v.Add("admin_password", "must be at least 8 characters")
		return apperr.Wrap(op, v)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	u, created, err := s.store.EnsureAdmin(ctx, model.User{Email: email, DisplayName: displayName, PasswordHash: hash})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	if created {
		s.logger.Info(ctx, "bootstrap admin created", logger.Uint("user_id", u.ID))
	}
	return nil
}
