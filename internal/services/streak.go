package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"sixpillars/internal/models"
)

// StreakState is the per-(user, category) counter pair plus the day it was
// last advanced. The zero value means no check-in has ever been recorded.
type StreakState struct {
	Current int
	Longest int
	LastDay time.Time
}

// AdvanceStreak applies one check-in day to a state:
//
//	no prior day        -> 1 / 1 / day
//	day == last         -> unchanged (idempotent re-application)
//	day == last + 1     -> current+1, longest = max(longest, current+1)
//	day >  last + 1     -> current resets to 1 (the new check-in is day one
//	                       of the next streak), longest kept
//	day <  last         -> unchanged; a backfill invalidates incremental
//	                       logic and the caller must replay the full history
func AdvanceStreak(s StreakState, day time.Time) StreakState {
	day = DateOnly(day)
	if s.LastDay.IsZero() {
		return StreakState{Current: 1, Longest: 1, LastDay: day}
	}
	last := DateOnly(s.LastDay)
	switch {
	case day.Equal(last):
		return s
	case day.Equal(last.AddDate(0, 0, 1)):
		cur := s.Current + 1
		longest := s.Longest
		if cur > longest {
			longest = cur
		}
		return StreakState{Current: cur, Longest: longest, LastDay: day}
	case day.After(last):
		return StreakState{Current: 1, Longest: s.Longest, LastDay: day}
	default:
		return s
	}
}

// ReplayStreak folds AdvanceStreak over an ascending day history. It is the
// authoritative computation: applied to any history it matches what the
// incremental rule would have produced check-in by check-in.
func ReplayStreak(daysAsc []time.Time) StreakState {
	var s StreakState
	for _, d := range daysAsc {
		s = AdvanceStreak(s, d)
	}
	return s
}

type StreakRowStore interface {
	LockStreak(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) (models.Streak, error)
	UpsertStreak(ctx context.Context, ex sqlx.ExtContext, userID, categoryID, current, longest int, lastDay *time.Time) error
}

type CheckinDayReader interface {
	CheckinDaysAsc(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) ([]time.Time, error)
}

// StreakEngine maintains the counters. Writes always happen inside the
// caller's transaction (the one that inserted or deleted the check-in), so a
// crash can never commit a check-in without its streak effect.
type StreakEngine struct {
	db       *sqlx.DB
	streaks  StreakRowStore
	checkins CheckinDayReader
	log      *zap.Logger
}

func NewStreakEngine(db *sqlx.DB, streaks StreakRowStore, checkins CheckinDayReader, log *zap.Logger) *StreakEngine {
	return &StreakEngine{db: db, streaks: streaks, checkins: checkins, log: log}
}

// OnCheckinCreated advances the counters for a newly inserted check-in.
// The row lock is taken (materializing the row first) before any state is
// read, so concurrent writers for the same pair serialize here. Backfilled
// days (before the recorded last day) fall through to a full replay;
// everything else is a single incremental transition.
func (e *StreakEngine) OnCheckinCreated(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, day time.Time) error {
	row, err := e.streaks.LockStreak(ctx, ex, userID, categoryID)
	if err != nil {
		return fmt.Errorf("lock streak row: %w", err)
	}
	if row.LastCheckinDay != nil && DateOnly(day).Before(DateOnly(*row.LastCheckinDay)) {
		_, err := e.RecomputeWithin(ctx, ex, userID, categoryID)
		return err
	}
	st := stateFromRow(row)
	st = AdvanceStreak(st, day)
	return e.writeState(ctx, ex, userID, categoryID, st)
}

// RecomputeWithin replays the full check-in history inside the caller's
// transaction. The row lock is taken before the history is read, so the
// replay can never run on a snapshot that a concurrent streak writer for
// the same pair is about to invalidate. On any error nothing is written:
// the prior row survives.
func (e *StreakEngine) RecomputeWithin(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int) (StreakState, error) {
	if _, err := e.streaks.LockStreak(ctx, ex, userID, categoryID); err != nil {
		return StreakState{}, fmt.Errorf("lock streak row: %w", err)
	}
	days, err := e.checkins.CheckinDaysAsc(ctx, ex, userID, categoryID)
	if err != nil {
		return StreakState{}, fmt.Errorf("load check-in history: %w", err)
	}
	st := ReplayStreak(days)
	if err := e.writeState(ctx, ex, userID, categoryID, st); err != nil {
		return StreakState{}, err
	}
	return st, nil
}

// Recompute replays the history in its own transaction, the entry point for
// the reconciler and for operator-triggered repairs. Fail-closed: a rollback
// leaves the last-known-good counters intact.
func (e *StreakEngine) Recompute(ctx context.Context, userID, categoryID int) (StreakState, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return StreakState{}, err
	}
	defer tx.Rollback()

	st, err := e.RecomputeWithin(ctx, tx, userID, categoryID)
	if err != nil {
		e.log.Error("streak recompute failed, counters left untouched",
			zap.Int("user_id", userID), zap.Int("category_id", categoryID), zap.Error(err))
		return StreakState{}, err
	}
	if err := tx.Commit(); err != nil {
		return StreakState{}, err
	}
	return st, nil
}

func (e *StreakEngine) writeState(ctx context.Context, ex sqlx.ExtContext, userID, categoryID int, st StreakState) error {
	var lastDay *time.Time
	if !st.LastDay.IsZero() {
		d := st.LastDay
		lastDay = &d
	}
	return e.streaks.UpsertStreak(ctx, ex, userID, categoryID, st.Current, st.Longest, lastDay)
}

func stateFromRow(row models.Streak) StreakState {
	st := StreakState{Current: row.CurrentStreak, Longest: row.LongestStreak}
	if row.LastCheckinDay != nil {
		st.LastDay = DateOnly(*row.LastCheckinDay)
	}
	return st
}
