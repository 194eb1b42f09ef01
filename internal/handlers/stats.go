package handlers

import (
	"context"
	"net/http"
	"time"

	"sixpillars/internal/middleware"
	"sixpillars/internal/models"
	"sixpillars/internal/services"
)

type statsService interface {
	GetOrCompute(ctx context.Context, callerID, userID int, day time.Time) (models.DailyStat, error)
}

type StatsHandler struct {
	svc   statsService
	users services.TimezoneReader
	now   func() time.Time
}

func NewStatsHandler(svc statsService, users services.TimezoneReader) *StatsHandler {
	return &StatsHandler{svc: svc, users: users, now: time.Now}
}

type dailyStatsResponse struct {
	Date                string   `json:"date"`
	CategoriesCompleted int      `json:"categories_completed"`
	AverageMood         *float64 `json:"average_mood"`
	CompletionRate      float64  `json:"completion_rate"`
}

// GetDaily returns the day's summary; query param date=YYYY-MM-DD defaults
// to the caller's today.
func (h *StatsHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var day time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		var err error
		day, err = services.ParseDay(dateStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected YYYY-MM-DD", "field": "date"})
			return
		}
	} else {
		loc, err := h.users.TimezoneFor(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		day = services.TodayIn(h.now(), loc)
	}

	stat, err := h.svc.GetOrCompute(r.Context(), userID, userID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyStatsResponse{
		Date:                stat.Day.Format(services.DayFormat),
		CategoriesCompleted: stat.CategoriesCompleted,
		AverageMood:         stat.AverageMood,
		CompletionRate:      stat.CompletionRate,
	})
}
