package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/metrics"
)

// Filter narrows ListAssessments. Nil fields do not filter.
type Filter struct {
	Team     *types.Team
	Assessor *types.Assessor
	PlayerID *uint
}

// joinedRow is the flat projection of an assessment joined with its player.
type joinedRow struct {
	model.Assessment
	PlayerName     string
	PlayerTeam     types.Team
	PlayerPosition types.Position
	PlayerFoot     types.Foot
}

func (r joinedRow) toModel() model.AssessmentWithPlayer {
	return model.AssessmentWithPlayer{
		Assessment: r.Assessment,
		Player: model.Player{
			ID:       r.PlayerID,
			Name:     r.PlayerName,
			Team:     r.PlayerTeam,
			Position: r.PlayerPosition,
			Foot:     r.PlayerFoot,
		},
	}
}

// CreateAssessment resolves the player and inserts the assessment in one
// transaction. playerCreated reports whether the player row is new.
func (s *Store) CreateAssessment(ctx context.Context, n model.NewAssessment) (model.AssessmentWithPlayer, bool, error) {
	const op = "repository.create_assessment"
	defer observe("create_assessment", time.Now())

	if err := n.Validate(); err != nil {
		return model.AssessmentWithPlayer{}, false, apperr.Wrap(op, err)
	}

	var (
		out           model.AssessmentWithPlayer
		playerCreated bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, created, err := resolvePlayer(tx, n.Player)
		if err != nil {
			return err
		}
		a := model.Assessment{
			PlayerID:       p.ID,
			Assessor:       n.Assessor,
			AssessmentDate: types.DateOnly(n.AssessmentDate),
			Scores:         n.Scores,
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		out = model.AssessmentWithPlayer{Assessment: a, Player: p}
		playerCreated = created
		return nil
	})
	if err != nil {
		return model.AssessmentWithPlayer{}, false, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	metrics.RecordPlayerResolution(playerCreated)
	metrics.RecordAssessmentCreated()
	return out, playerCreated, nil
}

// UpdateAssessment replaces the five scores of an assessment. Nothing else changes.
func (s *Store) UpdateAssessment(ctx context.Context, id uint, scores types.Scores) (model.Assessment, error) {
	const op = "repository.update_assessment"
	defer observe("update_assessment", time.Now())

	if err := scores.Validate(); err != nil {
		return model.Assessment{}, apperr.Wrap(op, err)
	}
	res := s.db.WithContext(ctx).Model(&model.Assessment{}).Where("id = ?", id).Updates(map[string]any{
		"technical":     scores.Technical,
		"tactical":      scores.Tactical,
		"physical":      scores.Physical,
		"psychological": scores.Psychological,
		"social":        scores.Social,
		"updated_at":    s.now().UTC(),
	})
	if res.Error != nil {
		return model.Assessment{}, apperr.WrapKind(op, apperr.ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Assessment{}, apperr.Newf(op, apperr.ErrNotFound, "assessment %d not found", id)
	}
	metrics.RecordAssessmentUpdated()
	return s.GetAssessment(ctx, id)
}

// GetAssessment loads one assessment.
func (s *Store) GetAssessment(ctx context.Context, id uint) (model.Assessment, error) {
	const op = "repository.get_assessment"

	var a model.Assessment
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Assessment{}, apperr.Newf(op, apperr.ErrNotFound, "assessment %d not found", id)
	case err != nil:
		return model.Assessment{}, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	return a, nil
}

// ListAssessments returns assessments joined with their players, newest
// assessment date first and then by id descending.
func (s *Store) ListAssessments(ctx context.Context, f Filter) ([]model.AssessmentWithPlayer, error) {
	const op = "repository.list_assessments"
	defer observe("list_assessments", time.Now())

	q := s.db.WithContext(ctx).
		Table("assessments").
		Select("assessments.*, players.name AS player_name, players.team AS player_team, " +
			"players.position AS player_position, players.foot AS player_foot").
		Joins("JOIN players ON players.id = assessments.player_id")
	if f.Team != nil {
		q = q.Where("players.team = ?", *f.Team)
	}
	if f.Assessor != nil {
		q = q.Where("assessments.assessor = ?", *f.Assessor)
	}
	if f.PlayerID != nil {
		q = q.Where("assessments.player_id = ?", *f.PlayerID)
	}

	var rows []joinedRow
	if err := q.Order("assessments.assessment_date DESC").Order("assessments.id DESC").Scan(&rows).Error; err != nil {
		return nil, apperr.WrapKind(op, apperr.ErrPersistence, err)
	}
	out := make([]model.AssessmentWithPlayer, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}
