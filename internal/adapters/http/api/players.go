package api

import (
	"net/http"

	service "github.com/okian/devtrack/internal/app"
)

// PlayersHandler handles player endpoints.
type PlayersHandler struct {
	players Players
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(players Players) *PlayersHandler {
	return &PlayersHandler{players: players}
}

// HandleList handles GET /api/players/list.
func (h *PlayersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.players.ListPlayers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayers(ps))
}

// HandleHistory handles GET /api/players/history?search=&sort=&direction=.
func (h *PlayersHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.players.PlayerHistory(r.Context(), service.HistoryQuery{
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
		Direction: q.Get("direction"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessedList(rows))
}

// HandleHistoryByID handles GET /api/players/history/{id}.
func (h *PlayersHandler) HandleHistoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.players.PlayerHistoryByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessed(row))
}

// HandleExport handles POST /api/players/export.
func (h *PlayersHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var in service.ExportInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.players.ExportPlayers(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: service.PlayersExportedMessage})
}
