package handlers

import (
	"context"
	"net/http"
	"time"

	"sixpillars/internal/middleware"
	"sixpillars/internal/services"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, callerID, userID int, day *time.Time) (services.Dashboard, error)
}

type DashboardHandler struct {
	svc dashboardService
}

func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get returns all six categories annotated with today's completion flag and
// streak counters, in one composed read. Accepts optional query param
// date=YYYY-MM-DD; defaults to the caller's today.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var day *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		d, err := services.ParseDay(dateStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected YYYY-MM-DD", "field": "date"})
			return
		}
		day = &d
	}

	dash, err := h.svc.GetDashboard(r.Context(), userID, userID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
