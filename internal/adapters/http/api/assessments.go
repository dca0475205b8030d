package api

import (
	"net/http"

	service "github.com/okian/devtrack/internal/app"
	"github.com/okian/devtrack/internal/domain/types"
)

type createAssessmentRequest struct {
	PlayerName     string `json:"playerName"`
	Team           string `json:"team"`
	Position       string `json:"position"`
	Foot           string `json:"foot"`
	Assessor       string `json:"assessor"`
	AssessmentDate string `json:"assessmentDate"`
	types.RawScores
}

type updateAssessmentRequest struct {
	AssessmentID uint `json:"assessmentId"`
	types.RawScores
}

// AssessmentsHandler handles assessment endpoints.
type AssessmentsHandler struct {
	assessments Assessments
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(assessments Assessments) *AssessmentsHandler {
	return &AssessmentsHandler{assessments: assessments}
}

// HandleCreate handles POST /api/assessment/create.
func (h *AssessmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.assessments.CreateAssessment(r.Context(), service.CreateAssessmentInput{
		PlayerName:     req.PlayerName,
		Team:           req.Team,
		Position:       req.Position,
		Foot:           req.Foot,
		Assessor:       req.Assessor,
		AssessmentDate: req.AssessmentDate,
		Scores:         req.RawScores,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCreated(created))
}

// HandleList handles GET /api/assessment/list?team=&assessor=.
func (h *AssessmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.assessments.ListAssessments(r.Context(), q.Get("team"), q.Get("assessor"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessmentsWithPlayer(rows))
}

// HandleUpdate handles POST /api/assessment/update.
func (h *AssessmentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateAssessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.assessments.UpdateAssessment(r.Context(), req.AssessmentID, req.RawScores)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessment(a))
}

// HandleExport handles POST /api/assessment/export.
func (h *AssessmentsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var in service.ExportInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.assessments.ExportAssessments(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: service.AssessmentsExportedMessage})
}
