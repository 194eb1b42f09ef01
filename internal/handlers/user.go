package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"sixpillars/internal/middleware"
	"sixpillars/internal/models"
)

type UserHandler struct {
	db *sqlx.DB
}

func NewUserHandler(db *sqlx.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var u models.User
	if err := h.db.Get(&u, `SELECT id, email, password_hash, timezone, created_at FROM users WHERE id=$1`, userID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe updates the current user's timezone, the one profile field the
// check-in engine depends on (future-date validation).
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var body struct {
		Timezone *string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Timezone == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, err := time.LoadLocation(*body.Timezone); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected IANA zone name", "field": "timezone"})
		return
	}
	if _, err := h.db.Exec(`UPDATE users SET timezone=$1 WHERE id=$2`, *body.Timezone, userID); err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
