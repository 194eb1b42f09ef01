package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"sixpillars/internal/catalog"
	"sixpillars/internal/models"
)

const (
	moodMin = 1
	moodMax = 5

	conflictRetries = 1
	conflictBackoff = 50 * time.Millisecond
)

type CheckinWriter interface {
	UpsertCheckin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time, mood *int, notes *string) (models.Checkin, bool, error)
	DeleteCheckin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time) (bool, error)
}

type TimezoneReader interface {
	TimezoneFor(ctx context.Context, userID int) (*time.Location, error)
}

type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID int, day time.Time)
}

type StreakUpdater interface {
	OnCheckinCreated(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time) error
	RecomputeWithin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) (StreakState, error)
}

// CheckinService is the write path: validate, authorize, then one
// transaction covering the upsert and its streak effect.
type CheckinService struct {
	catalog  *catalog.Catalog
	checkins CheckinWriter
	streaks  StreakUpdater
	stats    StatsInvalidator
	users    TimezoneReader
	log      *zap.Logger
	now      func() time.Time
	runTx    func(ctx context.Context, fn func(ex sqlx.ExtContext) error) error
}

func NewCheckinService(db *sqlx.DB, cat *catalog.Catalog, checkins CheckinWriter, streaks StreakUpdater, stats StatsInvalidator, users TimezoneReader, log *zap.Logger) *CheckinService {
	return &CheckinService{
		catalog:  cat,
		checkins: checkins,
		streaks:  streaks,
		stats:    stats,
		users:    users,
		log:      log,
		now:      time.Now,
		runTx:    sqlTx(db),
	}
}

func sqlTx(db *sqlx.DB) func(ctx context.Context, fn func(ex sqlx.ExtContext) error) error {
	return func(ctx context.Context, fn func(ex sqlx.ExtContext) error) error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	}
}

// Record upserts one check-in. Re-submitting a day overwrites mood/notes and
// leaves the streak counters alone; only a genuinely new day reaches the
// streak engine, inside the same transaction as the insert.
func (s *CheckinService) Record(ctx context.Context, callerID, userID int, slug string, day time.Time, mood *int, notes *string) (models.Checkin, error) {
	if err := Authorize(callerID, userID); err != nil {
		return models.Checkin{}, err
	}
	cat, ok := s.catalog.BySlug(slug)
	if !ok {
		return models.Checkin{}, invalid("category_slug", "unknown category")
	}
	if mood != nil && (*mood < moodMin || *mood > moodMax) {
		return models.Checkin{}, invalid("mood", fmt.Sprintf("must be between %d and %d", moodMin, moodMax))
	}
	day = DateOnly(day)
	loc, err := s.users.TimezoneFor(ctx, userID)
	if err != nil {
		return models.Checkin{}, err
	}
	if day.After(TodayIn(s.now(), loc)) {
		return models.Checkin{}, invalid("day", "must not be in the future")
	}

	var ck models.Checkin
	for attempt := 0; ; attempt++ {
		ck, err = s.record(ctx, userID, cat.ID, day, mood, notes)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return models.Checkin{}, err
		}
		if attempt >= conflictRetries {
			return models.Checkin{}, fmt.Errorf("%w: concurrent check-in write", ErrConflict)
		}
		s.log.Warn("constraint race during check-in upsert, retrying",
			zap.Int("user_id", userID), zap.String("category", slug), zap.Error(err))
		select {
		case <-ctx.Done():
			return models.Checkin{}, ctx.Err()
		case <-time.After(conflictBackoff):
		}
	}

	s.stats.Invalidate(ctx, userID, day)
	return ck, nil
}

func (s *CheckinService) record(ctx context.Context, userID, categoryID int, day time.Time, mood *int, notes *string) (models.Checkin, error) {
	var ck models.Checkin
	err := s.runTx(ctx, func(ex sqlx.ExtContext) error {
		var created bool
		var err error
		ck, created, err = s.checkins.UpsertCheckin(ctx, ex, userID, categoryID, day, mood, notes)
		if err != nil {
			return err
		}
		if created {
			return s.streaks.OnCheckinCreated(ctx, ex, userID, categoryID, day)
		}
		return nil
	})
	if err != nil {
		return models.Checkin{}, err
	}
	return ck, nil
}

// Delete removes a check-in and recomputes the streak from the remaining
// history in the same transaction; the deleted day may sit anywhere in the
// chain, so a naive decrement is never attempted.
func (s *CheckinService) Delete(ctx context.Context, callerID, userID int, slug string, day time.Time) error {
	if err := Authorize(callerID, userID); err != nil {
		return err
	}
	cat, ok := s.catalog.BySlug(slug)
	if !ok {
		return invalid("category_slug", "unknown category")
	}
	day = DateOnly(day)

	err := s.runTx(ctx, func(ex sqlx.ExtContext) error {
		deleted, err := s.checkins.DeleteCheckin(ctx, ex, userID, cat.ID, day)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		_, err = s.streaks.RecomputeWithin(ctx, ex, userID, cat.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx, userID, day)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
