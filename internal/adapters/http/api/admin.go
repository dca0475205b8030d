package api

import (
	"fmt"
	"net/http"
)

type approveUserRequest struct {
	UserID uint   `json:"userId"`
	Status string `json:"status"`
}

// AdminHandler handles user management endpoints.
type AdminHandler struct {
	admin Admin
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// HandleUsers handles GET /api/admin/users?status=.
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(users))
}

// HandleApproveUser handles POST /api/admin/approve_user.
func (h *AdminHandler) HandleApproveUser(w http.ResponseWriter, r *http.Request) {
	var req approveUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.admin.DecideUser(r.Context(), req.UserID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("User %s has been %s", u.Email, u.Status),
	})
}
