package store

import (
	"context"
	"time"

	"sixpillars/internal/models"
)

// DailyAggregate computes the per-day summary directly from check-in rows.
// Average mood ignores check-ins without a mood and is nil when none have one.
func (s *Store) DailyAggregate(ctx context.Context, userID int, day time.Time) (int, *float64, error) {
	var row struct {
		Completed int      `db:"completed"`
		AvgMood   *float64 `db:"avg_mood"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT
			COUNT(DISTINCT category_id) AS completed,
			AVG(mood) FILTER (WHERE mood IS NOT NULL) AS avg_mood
		FROM checkins
		WHERE user_id = $1 AND day = $2`, userID, day)
	if err != nil {
		return 0, nil, err
	}
	return row.Completed, row.AvgMood, nil
}

// SaveDailyStat refreshes the inspection copy of the projection.
func (s *Store) SaveDailyStat(ctx context.Context, stat models.DailyStat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (user_id, day, categories_completed, average_mood, completion_rate, computed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, day)
		DO UPDATE SET
			categories_completed = EXCLUDED.categories_completed,
			average_mood = EXCLUDED.average_mood,
			completion_rate = EXCLUDED.completion_rate,
			computed_at = NOW()`,
		stat.UserID, stat.Day, stat.CategoriesCompleted, stat.AverageMood, stat.CompletionRate)
	return err
}

// DashboardRows joins the six categories against one user's check-ins for
// the given day and their streak counters. A single statement keeps the
// read on one snapshot and avoids three round trips.
func (s *Store) DashboardRows(ctx context.Context, userID int, day time.Time) ([]models.DashboardEntry, error) {
	var out []models.DashboardEntry
	err := s.db.SelectContext(ctx, &out, `
		SELECT
			c.id, c.slug, c.name, c.color, c.icon, c.position,
			(ci.id IS NOT NULL) AS completed_today,
			COALESCE(st.current_streak, 0) AS current_streak,
			COALESCE(st.longest_streak, 0) AS longest_streak
		FROM categories c
		LEFT JOIN checkins ci ON ci.category_id = c.id AND ci.user_id = $1 AND ci.day = $2
		LEFT JOIN streaks st ON st.category_id = c.id AND st.user_id = $1
		ORDER BY c.position`, userID, day)
	if err != nil {
		return nil, err
	}
	return out, nil
}
