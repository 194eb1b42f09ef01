package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sixpillars/internal/models"
)

// LockStreak materializes the streak row if the pair has none yet, then
// loads it under a row lock. A bare SELECT ... FOR UPDATE locks nothing
// when the row is absent, which would let two first-ever check-ins for the
// same pair race; inserting first gives every streak mutation a row to
// serialize on. Must run inside a transaction for the lock to matter.
func (s *Store) LockStreak(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) (models.Streak, error) {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO streaks (user_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, category_id) DO NOTHING`,
		userID, categoryID); err != nil {
		return models.Streak{}, err
	}
	var row models.Streak
	err := sqlx.GetContext(ctx, ex, &row, `
		SELECT user_id, category_id, current_streak, longest_streak, last_checkin_day, updated_at
		FROM streaks WHERE user_id = $1 AND category_id = $2 FOR UPDATE`,
		userID, categoryID)
	if err != nil {
		return models.Streak{}, err
	}
	return row, nil
}

// UpsertStreak writes the whole counter row; the primary key makes
// concurrent writers for the same pair serialize on the row.
func (s *Store) UpsertStreak(ctx context.Context, ex sqlx.ExtContext, userID, categoryID, current, longest int, lastDay *time.Time) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO streaks (user_id, category_id, current_streak, longest_streak, last_checkin_day, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, category_id)
		DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_checkin_day = EXCLUDED.last_checkin_day,
			updated_at = NOW()`,
		userID, categoryID, current, longest, lastDay)
	return err
}

// StaleStreakPairs finds pairs whose streak row lags behind their newest
// check-in (or is missing entirely), for the reconciler to repair.
func (s *Store) StaleStreakPairs(ctx context.Context, limit int) ([]models.StreakRef, error) {
	var out []models.StreakRef
	err := s.db.SelectContext(ctx, &out, `
		SELECT ci.user_id, ci.category_id
		FROM checkins ci
		LEFT JOIN streaks st ON st.user_id = ci.user_id AND st.category_id = ci.category_id
		GROUP BY ci.user_id, ci.category_id, st.last_checkin_day
		HAVING st.last_checkin_day IS NULL OR MAX(ci.day) > st.last_checkin_day
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}
