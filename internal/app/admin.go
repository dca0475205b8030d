package service

import (
	"context"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/logger"
)

// ListUsers lists accounts for admins, optionally by status.
func (s *Service) ListUsers(ctx context.Context, status string) ([]model.User, error) {
	const op = "service.list_users"

	if _, err := requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	var filter *types.Status
	if status != "" {
		st, err := types.ParseStatus(status)
		if err != nil {
			v := apperr.NewValidation()
			v.Add("status", err.Error())
			return nil, apperr.Wrap(op, v)
		}
		filter = &st
	}
	users, err := s.store.ListUsers(ctx, filter)
	return users, apperr.Wrap(op, err)
}

// DecideUser approves or rejects a pending account.
func (s *Service) DecideUser(ctx context.Context, userID uint, status string) (model.User, error) {
	const op = "service.decide_user"

	admin, err := requireAdmin(ctx, op)
	if err != nil {
		return model.User{}, err
	}
	v := apperr.NewValidation()
	if userID == 0 {
		v.Add("userId", "is required")
	}
	to, err := types.ParseStatus(status)
	if err != nil || to == types.StatusPending {
		v.Add("status", "must be approved or rejected")
	}
	if err := v.Err(); err != nil {
		return model.User{}, apperr.Wrap(op, err)
	}
	u, err := s.store.DecideUser(ctx, userID, to)
	if err != nil {
		return model.User{}, apperr.Wrap(op, err)
	}
	s.logger.Info(ctx, "user decided",
		logger.Uint("user_id", u.ID),
		logger.String("status", string(u.Status)),
		logger.Uint("admin_id", admin.UserID),
	)
	return u, nil
}
