package api

import (
	"net/http"

	service "github.com/okian/devtrack/internal/app"
)

// AuthHandler handles account endpoints.
type AuthHandler struct {
	accounts Accounts
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// HandleRegister handles POST /api/auth/register. New accounts wait for
// an admin's approval.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(u))
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     sess.Token.Value,
		ExpiresAt: stamp(sess.Token.ExpiresAt),
		User:      toUser(sess.User),
	})
}

// HandleLogout handles POST /api/auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

// HandleSession handles GET /api/auth/session.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.CurrentUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(u))
}
