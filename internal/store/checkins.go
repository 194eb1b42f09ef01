package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sixpillars/internal/models"
)

// UpsertCheckin writes a check-in atomically keyed by (user, category, day).
// The second return reports whether a new row was inserted: xmax = 0 only
// holds for freshly inserted tuples, so an ON CONFLICT update yields false.
func (s *Store) UpsertCheckin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time, mood *int, notes *string) (models.Checkin, bool, error) {
	var row struct {
		models.Checkin
		Inserted bool `db:"inserted"`
	}
	err := sqlx.GetContext(ctx, ex, &row, `
		INSERT INTO checkins (user_id, category_id, day, mood, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, category_id, day)
		DO UPDATE SET
			mood = EXCLUDED.mood,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, user_id, category_id, day, mood, notes, created_at, updated_at, (xmax = 0) AS inserted`,
		userID, categoryID, day, mood, notes)
	if err != nil {
		return models.Checkin{}, false, err
	}
	return row.Checkin, row.Inserted, nil
}

// DeleteCheckin removes one check-in; it reports whether a row existed.
func (s *Store) DeleteCheckin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time) (bool, error) {
	res, err := ex.ExecContext(ctx, `DELETE FROM checkins WHERE user_id = $1 AND category_id = $2 AND day = $3`,
		userID, categoryID, day)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CheckinDaysAsc lists every check-in day for the pair in ascending order,
// the replay input for streak recomputation.
func (s *Store) CheckinDaysAsc(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) ([]time.Time, error) {
	var days []time.Time
	err := sqlx.SelectContext(ctx, ex, &days,
		`SELECT day FROM checkins WHERE user_id = $1 AND category_id = $2 ORDER BY day ASC`,
		userID, categoryID)
	if err != nil {
		return nil, err
	}
	return days, nil
}
