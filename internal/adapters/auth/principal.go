package auth

import (
	"context"
	"time"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
)

// Principal is the authenticated caller of a request, loaded fresh from
// the user table.
type Principal struct {
	UserID      uint
	Email       string
	DisplayName string
	Role        types.Role
	Status      types.Status
	TokenID     string
	ExpiresAt   time.Time
}

// NewPrincipal combines a stored user with the token that authenticated it.
func NewPrincipal(u model.User, id Identity) Principal {
	return Principal{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		TokenID:     id.TokenID,
		ExpiresAt:   id.ExpiresAt,
	}
}

// Approved reports whether the caller may use the application.
func (p Principal) Approved() bool { return p.Status == types.StatusApproved }

// Admin reports whether the caller holds the admin role.
func (p Principal) Admin() bool { return p.Role == types.RoleAdmin }

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored on ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
