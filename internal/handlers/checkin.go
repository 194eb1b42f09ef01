package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sixpillars/internal/catalog"
	"sixpillars/internal/middleware"
	"sixpillars/internal/models"
	"sixpillars/internal/services"
)

type checkinService interface {
	Record(ctx context.Context, callerID, userID int, slug string, day time.Time, mood *int, notes *string) (models.Checkin, error)
	Delete(ctx context.Context, callerID, userID int, slug string, day time.Time) error
}

type CheckinHandler struct {
	svc     checkinService
	catalog *catalog.Catalog
}

func NewCheckinHandler(svc checkinService, cat *catalog.Catalog) *CheckinHandler {
	return &CheckinHandler{svc: svc, catalog: cat}
}

type checkinRequest struct {
	CategorySlug string  `json:"category_slug"`
	Day          string  `json:"day"` // YYYY-MM-DD
	Mood         *int    `json:"mood"`
	Notes        *string `json:"notes"`
}

type checkinResponse struct {
	CategorySlug string  `json:"category_slug"`
	Day          string  `json:"day"`
	Mood         *int    `json:"mood,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// Upsert godoc
// @Summary Record a check-in
// @Description Upserts the caller's check-in for one category and day; same-day re-submission updates mood/notes only
// @Tags checkins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body checkinRequest true "Check-in"
// @Success 200 {object} checkinResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Router /checkins [put]
func (h *CheckinHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.CategorySlug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "required", "field": "category_slug"})
		return
	}
	day, err := services.ParseDay(req.Day)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected YYYY-MM-DD", "field": "day"})
		return
	}

	ck, err := h.svc.Record(r.Context(), userID, userID, req.CategorySlug, day, req.Mood, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(ck))
}

// Delete removes the caller's check-in for {categorySlug}/{day}.
func (h *CheckinHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	slug := chi.URLParam(r, "categorySlug")
	day, err := services.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected YYYY-MM-DD", "field": "day"})
		return
	}
	if err := h.svc.Delete(r.Context(), userID, userID, slug, day); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckinHandler) toResponse(ck models.Checkin) checkinResponse {
	slug := ""
	if cat, ok := h.catalog.ByID(ck.CategoryID); ok {
		slug = cat.Slug
	}
	return checkinResponse{
		CategorySlug: slug,
		Day:          ck.Day.Format(services.DayFormat),
		Mood:         ck.Mood,
		Notes:        ck.Notes,
		CreatedAt:    ck.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    ck.UpdatedAt.Format(time.RFC3339),
	}
}
