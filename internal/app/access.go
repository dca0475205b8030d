package service

import (
	"context"

	"github.com/okian/devtrack/internal/adapters/auth"
	"github.com/okian/devtrack/internal/domain/apperr"
)

// requireApproved returns the caller when it is an approved user.
func requireApproved(ctx context.Context, op string) (auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Principal{}, apperr.New(op, apperr.ErrUnauthenticated)
	}
	if !p.Approved() {
		return auth.Principal{}, apperr.Newf(op, apperr.ErrForbidden, "account is %s; approval required", p.Status)
	}
	return p, nil
}

// requireAdmin returns the caller when it is an approved admin.
func requireAdmin(ctx context.Context, op string) (auth.Principal, error) {
	p, err := requireApproved(ctx, op)
	if err != nil {
		return auth.Principal{}, err
	}
	if !p.Admin() {
		return auth.Principal{}, apperr.Newf(op, apperr.ErrForbidden, "admin role required")
	}
	return p, nil
}
