package service

import (
	"context"

	"github.com/okian/devtrack/internal/adapters/repository"
	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/okian/devtrack/pkg/logger"
)

// CreateAssessmentInput is the untrusted form of a new assessment.
type CreateAssessmentInput struct {
	PlayerName     string
	Team           string
	Position       string
	Foot           string
	Assessor       string
	AssessmentDate string
	Scores         types.RawScores
}

// CreatedAssessment is a stored assessment with its resolved player.
type CreatedAssessment struct {
	model.AssessmentWithPlayer
	PlayerCreated bool
}

// parse validates every field and reports all problems together.
func (in CreateAssessmentInput) parse() (model.NewAssessment, error) {
	v := apperr.NewValidation()
	var n model.NewAssessment

	tuple, err := types.NewPlayerTuple(in.PlayerName, in.Team, in.Position, in.Foot)
	addAll(v, err)
	n.Player = tuple

	if n.Assessor, err = types.ParseAssessor(in.Assessor); err != nil {
		v.Add("assessor", err.Error())
	}
	if n.AssessmentDate, err = types.ParseDate(in.AssessmentDate); err != nil {
		v.Add("assessmentDate", err.Error())
	}
	scores, err := in.Scores.Scores()
	addAll(v, err)
	n.Scores = scores

	if err := v.Err(); err != nil {
		return model.NewAssessment{}, err
	}
	return n, nil
}

func addAll(dst *apperr.ValidationError, err error) {
	for k, p := range apperr.FieldErrors(err) {
		dst.Add(k, p)
	}
}

// CreateAssessment records an assessment, creating the player on first sight.
func (s *Service) CreateAssessment(ctx context.Context, in CreateAssessmentInput) (CreatedAssessment, error) {
	const op = "service.create_assessment"

	if _, err := requireApproved(ctx, op); err != nil {
		return CreatedAssessment{}, err
	}
	n, err := in.parse()
	if err != nil {
		return CreatedAssessment{}, apperr.Wrap(op, err)
	}
	a, created, err := s.store.CreateAssessment(ctx, n)
	if err != nil {
		return CreatedAssessment{}, apperr.Wrap(op, err)
	}
	s.logger.Info(ctx, "assessment created",
		logger.Uint("assessment_id", a.ID),
		logger.Uint("player_id", a.Player.ID),
		logger.Bool("player_created", created),
	)
	return CreatedAssessment{AssessmentWithPlayer: a, PlayerCreated: created}, nil
}

// ListAssessments lists assessments, optionally narrowed by team and assessor.
// Empty filter values match everything.
func (s *Service) ListAssessments(ctx context.Context, team, assessor string) ([]model.AssessmentWithPlayer, error) {
	const op = "service.list_assessments"

	if _, err := requireApproved(ctx, op); err != nil {
		return nil, err
	}
	var f repository.Filter
	v := apperr.NewValidation()
	if team != "" {
		t, err := types.ParseTeam(team)
		if err != nil {
			v.Add("team", err.Error())
		}
		f.Team = &t
	}
	if assessor != "" {
		a, err := types.ParseAssessor(assessor)
		if err != nil {
			v.Add("assessor", err.Error())
		}
		f.Assessor = &a
	}
	if err := v.Err(); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	rows, err := s.store.ListAssessments(ctx, f)
	return rows, apperr.Wrap(op, err)
}

// UpdateAssessment replaces the scores of an existing assessment.
func (s *Service) UpdateAssessment(ctx context.Context, id uint, raw types.RawScores) (model.Assessment, error) {
	const op = "service.update_assessment"

	if _, err := requireApproved(ctx, op); err != nil {
		return model.Assessment{}, err
	}
	v := apperr.NewValidation()
	if id == 0 {
		v.Add("id", "is required")
	}
	scores, err := raw.Scores()
	addAll(v, err)
	if err := v.Err(); err != nil {
		return model.Assessment{}, apperr.Wrap(op, err)
	}
	a, err := s.store.UpdateAssessment(ctx, id, scores)
	if err != nil {
		return model.Assessment{}, apperr.Wrap(op, err)
	}
	s.logger.Info(ctx, "assessment updated", logger.Uint("assessment_id", a.ID))
	return a, nil
}

// Stats reports table sizes.
func (s *Service) Stats(ctx context.Context) (model.Counts, error) {
	const op = "service.stats"

	if _, err := requireApproved(ctx, op); err != nil {
		return model.Counts{}, err
	}
	c, err := s.store.Counts(ctx)
	return c, apperr.Wrap(op, err)
}
