package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sixpillars/internal/middleware"
	"sixpillars/internal/models"
	"sixpillars/internal/services"
)

type stubDashboardService struct {
	dash   services.Dashboard
	err    error
	gotDay *time.Time
}

func (s *stubDashboardService) GetDashboard(_ context.Context, _, _ int, day *time.Time) (services.Dashboard, error) {
	s.gotDay = day
	if s.err != nil {
		return services.Dashboard{}, s.err
	}
	return s.dash, nil
}

func TestDashboardGet(t *testing.T) {
	entries := make([]models.DashboardEntry, 6)
	for i := range entries {
		entries[i] = models.DashboardEntry{CategoryID: i + 1, Position: i + 1}
	}
	svc := &stubDashboardService{dash: services.Dashboard{Date: "2026-08-20", Categories: entries}}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?date=2026-08-20", nil)
	req = middleware.WithUserID(req, 9)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.gotDay == nil || svc.gotDay.Format("2006-01-02") != "2026-08-20" {
		t.Fatalf("service called with day %v", svc.gotDay)
	}
	var dash services.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(dash.Categories) != 6 {
		t.Fatalf("got %d categories, want 6", len(dash.Categories))
	}
}

func TestDashboardGetDefaultsDate(t *testing.T) {
	svc := &stubDashboardService{dash: services.Dashboard{Date: "2026-08-30"}}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req = middleware.WithUserID(req, 9)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if svc.gotDay != nil {
		t.Fatalf("expected nil day for default, got %v", svc.gotDay)
	}
}

func TestDashboardGetRejectsBadDate(t *testing.T) {
	h := NewDashboardHandler(&stubDashboardService{})
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?date=nope", nil)
	req = middleware.WithUserID(req, 9)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
