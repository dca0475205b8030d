package api

import (
	"time"

	service "github.com/okian/devtrack/internal/app"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/roster"
	"github.com/okian/devtrack/internal/domain/summary"
	"github.com/okian/devtrack/internal/domain/types"
)

// Response shapes. Calendar dates are rendered as YYYY-MM-DD and
// timestamps as RFC3339.

type playerResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	Foot      string `json:"foot"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type assessmentResponse struct {
	ID             uint    `json:"id"`
	PlayerID       uint    `json:"playerId"`
	Assessor       string  `json:"assessor"`
	AssessmentDate string  `json:"assessmentDate"`
	types.Scores
	AverageScore float64 `json:"averageScore"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type assessmentWithPlayerResponse struct {
	assessmentResponse
	Player playerResponse `json:"player"`
}

type createdAssessmentResponse struct {
	assessmentWithPlayerResponse
	PlayerCreated bool `json:"playerCreated"`
}

type summaryResponse struct {
	AverageScores        summary.Averages `json:"averageScores"`
	Trend                string           `json:"trend"`
	AssessmentCount      int              `json:"assessmentCount"`
	LatestAssessmentDate *string          `json:"latestAssessmentDate"`
}

type processedPlayerResponse struct {
	playerResponse
	summaryResponse
	Assessments []assessmentResponse `json:"assessments"`
}

type userResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type statsResponse struct {
	Players     int64 `json:"players"`
	Assessments int64 `json:"assessments"`
	Users       int64 `json:"users"`
}

type readinessResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func toPlayer(p model.Player) playerResponse {
	return playerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Team:      string(p.Team),
		Position:  string(p.Position),
		Foot:      string(p.Foot),
		CreatedAt: stamp(p.CreatedAt),
		UpdatedAt: stamp(p.UpdatedAt),
	}
}

func toPlayers(ps []model.Player) []playerResponse {
	out := make([]playerResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPlayer(p))
	}
	return out
}

func toAssessment(a model.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:             a.ID,
		PlayerID:       a.PlayerID,
		Assessor:       string(a.Assessor),
		AssessmentDate: types.FormatDate(a.AssessmentDate),
		Scores:         a.Scores,
		AverageScore:   summary.Composite(a.Scores),
		CreatedAt:      stamp(a.CreatedAt),
		UpdatedAt:      stamp(a.UpdatedAt),
	}
}

func toAssessmentWithPlayer(a model.AssessmentWithPlayer) assessmentWithPlayerResponse {
	return assessmentWithPlayerResponse{assessmentResponse: toAssessment(a.Assessment), Player: toPlayer(a.Player)}
}

func toAssessmentsWithPlayer(rows []model.AssessmentWithPlayer) []assessmentWithPlayerResponse {
	out := make([]assessmentWithPlayerResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAssessmentWithPlayer(r))
	}
	return out
}

func toCreated(c service.CreatedAssessment) createdAssessmentResponse {
	return createdAssessmentResponse{
		assessmentWithPlayerResponse: toAssessmentWithPlayer(c.AssessmentWithPlayer),
		PlayerCreated:                c.PlayerCreated,
	}
}

func toProcessed(p roster.ProcessedPlayer) processedPlayerResponse {
	s := summaryResponse{
		AverageScores:   p.Summary.AverageScores,
		Trend:           string(p.Summary.Trend),
		AssessmentCount: p.Summary.AssessmentCount,
	}
	if p.Summary.LatestAssessmentDate != nil {
		d := types.FormatDate(*p.Summary.LatestAssessmentDate)
		s.LatestAssessmentDate = &d
	}
	history := make([]assessmentResponse, 0, len(p.Assessments))
	for _, a := range p.Assessments {
		history = append(history, toAssessment(a))
	}
	return processedPlayerResponse{playerResponse: toPlayer(p.Player), summaryResponse: s, Assessments: history}
}

func toProcessedList(ps []roster.ProcessedPlayer) []processedPlayerResponse {
	out := make([]processedPlayerResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProcessed(p))
	}
	return out
}

func toUser(u model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		CreatedAt:   stamp(u.CreatedAt),
	}
}

func toUsers(us []model.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u))
	}
	return out
}
