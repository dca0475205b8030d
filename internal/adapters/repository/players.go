package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/metrics"
)

// ResolvePlayer finds or creates the player for t in its own transaction.
// created reports whether a new row was inserted.
func (s *Store) ResolvePlayer(ctx context.Context, t types.PlayerTuple) (model.Player, bool, error) {
	const op = "repository.resolve_player"
	defer observe("resolve_player", time.Now())

	if err := t.Validate(); err != nil {
		return model.Player{}, false, apperr.Wrap(op, err)
	}
	var (
		p       model.Player
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, created, err = resolvePlayer(tx, t)
		return err
	})
	if err != nil {
		return model.Player{}, false, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	metrics.RecordPlayerResolution(created)
	return p, created, nil
}

// resolvePlayer runs find-or-create inside tx. The insert tolerates a
// concurrent creator: on conflict nothing is written and the winner's
// row is read back.
func resolvePlayer(tx *gorm.DB, t types.PlayerTuple) (model.Player, bool, error) {
	p, err := findPlayer(tx, t, false)
	switch {
	case err == nil:
		return p, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return model.Player{}, false, err
	}

	p = model.Player{Name: t.Name, Team: t.Team, Position: t.Position, Foot: t.Foot}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
	if res.Error != nil {
		return model.Player{}, false, res.Error
	}
	if res.RowsAffected == 1 && p.ID != 0 {
		return p, true, nil
	}

	p, err = findPlayer(tx, t, true)
	if err != nil {
		return model.Player{}, false, err
	}
	return p, false, nil
}

// findPlayer looks the tuple up. locking reads the latest committed row
// instead of the transaction snapshot.
func findPlayer(tx *gorm.DB, t types.PlayerTuple, locking bool) (model.Player, error) {
	q := tx.Where("name = ? AND team = ? AND position = ? AND foot = ?", t.Name, t.Team, t.Position, t.Foot)
	if locking {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}
	var p model.Player
	err := q.Take(&p).Error
	return p, err
}

// ListPlayers returns every player ordered by name, then id.
func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	const op = "repository.list_players"
	defer observe("list_players", time.Now())

	var players []model.Player
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&players).Error; err != nil {
		return nil, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return players, nil
}

// GetPlayer loads one player.
func (s *Store) GetPlayer(ctx context.Context, id uint) (model.Player, error) {
	const op = "repository.get_player"
	defer observe("get_player", time.Now())

	var p model.Player
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Player{}, apperr.Newf(op, apperr.ErrNotFound, "player %d not found", id)
	case err != nil:
		return model.Player{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return p, nil
}

// Counts reports the number of players, assessments and users.
func (s *Store) Counts(ctx context.Context) (model.Counts, error) {
	const op = "repository.counts"
	defer observe("counts", time.Now())

	var c model.Counts
	db := s.db.WithContext(ctx)
	if err := db.Model(&model.Player{}).Count(&c.Players).Error; err != nil {
		return model.Counts{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	if err := db.Model(&model.Assessment{}).Count(&c.Assessments).Error; err != nil {
		return model.Counts{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	if err := db.Model(&model.User{}).Count(&c.Users).Error; err != nil {
		return model.Counts{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return c, nil
}
