package services

import (
	"context"
	"fmt"
	"time"

	"sixpillars/internal/catalog"
	"sixpillars/internal/models"
)

type DashboardRowReader interface {
	DashboardRows(ctx context.Context, userID int, day time.Time) ([]models.DashboardEntry, error)
}

type Dashboard struct {
	Date       string                  `json:"date"`
	Categories []models.DashboardEntry `json:"categories"`
}

// DashboardService composes categories, today's check-ins, and streak
// counters into one read-model. The store fetches it in a single statement,
// so every entry comes from the same snapshot.
type DashboardService struct {
	rows  DashboardRowReader
	users TimezoneReader
	now   func() time.Time
}

func NewDashboardService(rows DashboardRowReader, users TimezoneReader) *DashboardService {
	return &DashboardService{rows: rows, users: users, now: time.Now}
}

// GetDashboard returns the six categories in position order. A nil day
// defaults to the caller's today.
func (s *DashboardService) GetDashboard(ctx context.Context, callerID, userID int, day *time.Time) (Dashboard, error) {
	if err := Authorize(callerID, userID); err != nil {
		return Dashboard{}, err
	}

	var d time.Time
	if day != nil {
		d = DateOnly(*day)
	} else {
		loc, err := s.users.TimezoneFor(ctx, userID)
		if err != nil {
			return Dashboard{}, err
		}
		d = TodayIn(s.now(), loc)
	}

	entries, err := s.rows.DashboardRows(ctx, userID, d)
	if err != nil {
		return Dashboard{}, err
	}
	if len(entries) != catalog.Size {
		return Dashboard{}, fmt.Errorf("dashboard returned %d categories, want %d", len(entries), catalog.Size)
	}
	return Dashboard{Date: d.Format(DayFormat), Categories: entries}, nil
}
