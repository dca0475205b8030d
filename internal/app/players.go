package service

import (
	"context"

	"github.com/okian/devtrack/internal/adapters/repository"
	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/roster"
)

// HistoryQuery filters and orders the player history view.
type HistoryQuery struct {
	Search    string
	Sort      string
	Direction string
}

// ListPlayers returns every player by name.
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	const op = "service.list_players"

	if _, err := requireApproved(ctx, op); err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(ctx)
	return players, apperr.Wrap(op, err)
}

// PlayerHistory returns one summarized row per player.
func (s *Service) PlayerHistory(ctx context.Context, q HistoryQuery) ([]roster.ProcessedPlayer, error) {
	const op = "service.player_history"

	if _, err := requireApproved(ctx, op); err != nil {
		return nil, err
	}
	sort, err := roster.ParseSort(q.Sort, q.Direction)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	rows, err := s.processedPlayers(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	out, err := roster.List(rows, roster.Query{Search: q.Search, Sort: sort})
	return out, apperr.Wrap(op, err)
}

// PlayerHistoryByID returns the summarized row of one player.
func (s *Service) PlayerHistoryByID(ctx context.Context, id uint) (roster.ProcessedPlayer, error) {
	const op = "service.player_history_by_id"

	if _, err := requireApproved(ctx, op); err != nil {
		return roster.ProcessedPlayer{}, err
	}
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return roster.ProcessedPlayer{}, apperr.Wrap(op, err)
	}
	rows, err := s.store.ListAssessments(ctx, repository.Filter{PlayerID: &p.ID})
	if err != nil {
		return roster.ProcessedPlayer{}, apperr.Wrap(op, err)
	}
	return roster.Build([]model.Player{p}, roster.GroupByPlayer(rows))[0], nil
}

// processedPlayers loads all players and assessments and summarizes them.
func (s *Service) processedPlayers(ctx context.Context) ([]roster.ProcessedPlayer, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListAssessments(ctx, repository.Filter{})
	if err != nil {
		return nil, err
	}
	return roster.Build(players, roster.GroupByPlayer(rows)), nil
}
