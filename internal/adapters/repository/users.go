package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/metrics"
)

// CreateUser inserts u. The email is lower-cased and must be unused.
func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	const op = "repository.create_user"
	defer observe("create_user", time.Now())

	u.ID = 0
	u.Email = normalizeEmail(u.Email)
	err := s.db.WithContext(ctx).Create(&u).Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		v := apperr.NewValidation()
		v.Add("email", ErrEmailTaken.Error())
		return model.User{}, apperr.Wrap(op, v)
	case err != nil:
		return model.User{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	s.refreshUserGauges(ctx)
	return u, nil
}

// isUniqueViolation catches drivers that do not translate errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uint) (model.User, error) {
	const op = "repository.get_user"
	return s.takeUser(ctx, op, "id = ?", id)
}

// GetUserByEmail loads a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	const op = "repository.get_user_by_email"
	return s.takeUser(ctx, op, "email = ?", normalizeEmail(email))
}

func (s *Store) takeUser(ctx context.Context, op, query string, arg any) (model.User, error) {
	defer observe("get_user", time.Now())

	var u model.User
	err := s.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, apperr.New(op, apperr.ErrNotFound)
	case err != nil:
		return model.User{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return u, nil
}

// ListUsers returns users, newest first. A nil status lists everyone.
func (s *Store) ListUsers(ctx context.Context, status *types.Status) ([]model.User, error) {
	const op = "repository.list_users"
	defer observe("list_users", time.Now())

	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return users, nil
}

// DecideUser moves a pending user to approved or rejected. A user that
// was already decided is left unchanged and reported as a validation error.
func (s *Store) DecideUser(ctx context.Context, id uint, to types.Status) (model.User, error) {
	const op = "repository.decide_user"
	defer observe("decide_user", time.Now())

	if to != types.StatusApproved && to != types.StatusRejected {
		v := apperr.NewValidation()
		v.Add("status", "must be approved or rejected")
		return model.User{}, apperr.Wrap(op, v)
	}

	var out model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND status = ?", id, types.StatusPending).
			Updates(map[string]any{"status": to, "updated_at": s.now().UTC()})
		if res.Error != nil {
			return apperr.WrapKind(op, apperr.ErrPersistence, res.Error)
		}
		err := tx.Where("id = ?", id).Take(&out).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperr.Newf(op, apperr.ErrNotFound, "user %d not found", id)
		case err != nil:
			return apperr.WrapKind(op, apperr.ErrPersistence, err)
		}
		if res.RowsAffected == 0 {
			v := apperr.NewValidation()
			v.Add("status", "user is already "+string(out.Status))
			return apperr.Wrap(op, v)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	s.refreshUserGauges(ctx)
	return out, nil
}

// EnsureAdmin creates u as an approved admin unless its email already exists.
func (s *Store) EnsureAdmin(ctx context.Context, u model.User) (model.User, bool, error) {
	const op = "repository.ensure_admin"

	existing, err := s.GetUserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return model.User{}, false, apperr.Wrap(op, err)
	}
	u.Role = types.RoleAdmin
	u.Status = types.StatusApproved
	created, err := s.CreateUser(ctx, u)
	if err != nil {
		return model.User{}, false, apperr.Wrap(op, err)
	}
	return created, true, nil
}

// CountUsersByStatus groups users by approval status.
func (s *Store) CountUsersByStatus(ctx context.Context) (map[types.Status]int, error) {
	const op = "repository.count_users_by_status"

	var rows []struct {
		Status types.Status
		N      int
	}
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	out := make(map[types.Status]int, len(types.Statuses))
	for _, st := range types.Statuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func (s *Store) refreshUserGauges(ctx context.Context) {
	counts, err := s.CountUsersByStatus(ctx)
	if err != nil {
		return
	}
	for st, n := range counts {
		metrics.UpdateUsersByStatus(string(st), n)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
