package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"sixpillars/internal/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	if err != nil {
		t.Fatalf("bad day %q: %v", s, err)
	}
	return d
}

func days(t *testing.T, ss ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, 0, len(ss))
	for _, s := range ss {
		out = append(out, day(t, s))
	}
	return out
}

func TestAdvanceStreakTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state StreakState
		day   string
		want  StreakState
	}{
		{
			name: "first check-in ever",
			day:  "2026-03-10",
			want: StreakState{Current: 1, Longest: 1, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "same day is a no-op",
			state: StreakState{Current: 3, Longest: 5, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			day:   "2026-03-10",
			want:  StreakState{Current: 3, Longest: 5, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "next day increments",
			state: StreakState{Current: 3, Longest: 5, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			day:   "2026-03-11",
			want:  StreakState{Current: 4, Longest: 5, LastDay: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "next day extends longest when current catches up",
			state: StreakState{Current: 5, Longest: 5, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			day:   "2026-03-11",
			want:  StreakState{Current: 6, Longest: 6, LastDay: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "gap resets current to one, longest kept",
			state: StreakState{Current: 4, Longest: 7, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			day:   "2026-03-13",
			want:  StreakState{Current: 1, Longest: 7, LastDay: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "backfilled day leaves state alone",
			state: StreakState{Current: 4, Longest: 7, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			day:   "2026-03-05",
			want:  StreakState{Current: 4, Longest: 7, LastDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "month boundary still counts as consecutive",
			state: StreakState{Current: 2, Longest: 2, LastDay: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
			day:   "2026-02-01",
			want:  StreakState{Current: 3, Longest: 3, LastDay: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AdvanceStreak(tc.state, day(t, tc.day))
			if got != tc.want {
				t.Fatalf("AdvanceStreak = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestStreakScenarioFromDailyUse(t *testing.T) {
	// Days 1,2,3 -> 3/3; skip day 4; day 5 -> 1/3; days 6..9 -> 5/5.
	var s StreakState
	for _, d := range days(t, "2026-04-01", "2026-04-02", "2026-04-03") {
		s = AdvanceStreak(s, d)
	}
	if s.Current != 3 || s.Longest != 3 {
		t.Fatalf("after three days got %d/%d, want 3/3", s.Current, s.Longest)
	}

	s = AdvanceStreak(s, day(t, "2026-04-05"))
	if s.Current != 1 || s.Longest != 3 {
		t.Fatalf("after gap got %d/%d, want 1/3", s.Current, s.Longest)
	}

	for _, d := range days(t, "2026-04-06", "2026-04-07", "2026-04-08", "2026-04-09") {
		s = AdvanceStreak(s, d)
	}
	if s.Current != 5 || s.Longest != 5 {
		t.Fatalf("after recovery got %d/%d, want 5/5", s.Current, s.Longest)
	}
}

func TestStreakMonotonicity(t *testing.T) {
	histories := [][]time.Time{
		days(t, "2026-01-01"),
		days(t, "2026-01-01", "2026-01-02", "2026-01-03"),
		days(t, "2026-01-01", "2026-01-03", "2026-01-04", "2026-01-09", "2026-01-10", "2026-01-11", "2026-01-12"),
		days(t, "2026-01-05", "2026-01-06", "2026-01-06", "2026-01-20"),
	}
	for _, history := range histories {
		var s StreakState
		for _, d := range history {
			s = AdvanceStreak(s, d)
			if s.Longest < s.Current {
				t.Fatalf("longest %d < current %d after day %s", s.Longest, s.Current, d.Format(DayFormat))
			}
		}
	}
}

func TestReplayEquivalence(t *testing.T) {
	histories := [][]time.Time{
		nil,
		days(t, "2026-05-01"),
		days(t, "2026-05-01", "2026-05-02", "2026-05-03", "2026-05-04"),
		days(t, "2026-05-01", "2026-05-03", "2026-05-04", "2026-05-10"),
		days(t, "2026-05-01", "2026-05-02", "2026-05-05", "2026-05-06", "2026-05-07", "2026-05-08", "2026-05-09"),
	}
	for _, history := range histories {
		var incremental StreakState
		for _, d := range history {
			incremental = AdvanceStreak(incremental, d)
		}
		replayed := ReplayStreak(history)
		if incremental != replayed {
			t.Fatalf("replay %+v differs from incremental %+v for history %v", replayed, incremental, history)
		}
	}
}

func TestReplayEmptyHistoryIsZero(t *testing.T) {
	s := ReplayStreak(nil)
	if s.Current != 0 || s.Longest != 0 || !s.LastDay.IsZero() {
		t.Fatalf("replay of empty history = %+v, want zero state", s)
	}
}

// --- engine tests over stub storage ---

type stubStreakStore struct {
	row       models.Streak
	lockErr   error
	upsertErr error

	lockCalls int
	trace     *[]string
	upserts   []StreakState
}

func (s *stubStreakStore) LockStreak(context.Context, sqlx.ExtContext, int, int) (models.Streak, error) {
	if s.lockErr != nil {
		return models.Streak{}, s.lockErr
	}
	s.lockCalls++
	if s.trace != nil {
		*s.trace = append(*s.trace, "lock")
	}
	return s.row, nil
}

func (s *stubStreakStore) UpsertStreak(_ context.Context, _ sqlx.ExtContext, _, _, current, longest int, lastDay *time.Time) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	st := StreakState{Current: current, Longest: longest}
	if lastDay != nil {
		st.LastDay = *lastDay
	}
	s.upserts = append(s.upserts, st)
	return nil
}

type stubDayReader struct {
	days  []time.Time
	err   error
	reads int
	trace *[]string
}

func (s *stubDayReader) CheckinDaysAsc(context.Context, sqlx.ExtContext, int, int) ([]time.Time, error) {
	s.reads++
	if s.trace != nil {
		*s.trace = append(*s.trace, "history")
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]time.Time, len(s.days))
	copy(out, s.days)
	return out, nil
}

func newTestEngine(streaks *stubStreakStore, reader *stubDayReader) *StreakEngine {
	return NewStreakEngine(nil, streaks, reader, zapNop())
}

func TestOnCheckinCreatedFirstEver(t *testing.T) {
	// The store hands back a freshly materialized zero row; advancing from it
	// must produce 1/1, not overwrite with stale state.
	streaks := &stubStreakStore{}
	engine := newTestEngine(streaks, &stubDayReader{})

	if err := engine.OnCheckinCreated(context.Background(), nil, 1, 2, day(t, "2026-06-01")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streaks.lockCalls != 1 {
		t.Fatalf("expected the streak row to be locked once, got %d", streaks.lockCalls)
	}
	if len(streaks.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(streaks.upserts))
	}
	got := streaks.upserts[0]
	if got.Current != 1 || got.Longest != 1 || !got.LastDay.Equal(day(t, "2026-06-01")) {
		t.Fatalf("first check-in wrote %+v", got)
	}
}

func TestOnCheckinCreatedIncrement(t *testing.T) {
	last := day(t, "2026-06-01")
	streaks := &stubStreakStore{row: models.Streak{CurrentStreak: 2, LongestStreak: 4, LastCheckinDay: &last}}
	engine := newTestEngine(streaks, &stubDayReader{})

	if err := engine.OnCheckinCreated(context.Background(), nil, 1, 2, day(t, "2026-06-02")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := streaks.upserts[0]
	if got.Current != 3 || got.Longest != 4 {
		t.Fatalf("increment wrote %d/%d, want 3/4", got.Current, got.Longest)
	}
}

func TestOnCheckinCreatedBackfillTriggersReplay(t *testing.T) {
	last := day(t, "2026-06-10")
	streaks := &stubStreakStore{row: models.Streak{CurrentStreak: 1, LongestStreak: 1, LastCheckinDay: &last}}
	// History after the backfilled insert: 8,9,10 are consecutive.
	reader := &stubDayReader{days: days(t, "2026-06-08", "2026-06-09", "2026-06-10")}
	engine := newTestEngine(streaks, reader)

	if err := engine.OnCheckinCreated(context.Background(), nil, 1, 2, day(t, "2026-06-08")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := streaks.upserts[0]
	if got.Current != 3 || got.Longest != 3 || !got.LastDay.Equal(last) {
		t.Fatalf("backfill replay wrote %+v, want 3/3 ending %s", got, last.Format(DayFormat))
	}
}

func TestRecomputeFailClosedOnHistoryError(t *testing.T) {
	streaks := &stubStreakStore{}
	reader := &stubDayReader{err: errors.New("storage down")}
	engine := newTestEngine(streaks, reader)

	if _, err := engine.RecomputeWithin(context.Background(), nil, 1, 2); err == nil {
		t.Fatal("expected error from history read")
	}
	if len(streaks.upserts) != 0 {
		t.Fatalf("recompute wrote %d states despite failure", len(streaks.upserts))
	}
}

func TestRecomputeWithinAfterDeletion(t *testing.T) {
	streaks := &stubStreakStore{}
	reader := &stubDayReader{days: days(t, "2026-07-01", "2026-07-02", "2026-07-05")}
	engine := newTestEngine(streaks, reader)

	st, err := engine.RecomputeWithin(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Current != 1 || st.Longest != 2 {
		t.Fatalf("recompute = %d/%d, want 1/2", st.Current, st.Longest)
	}
}

func TestRecomputeWithinLocksRowBeforeHistoryRead(t *testing.T) {
	// The replay must run under the row lock; reading history first would let
	// a concurrent writer for the same pair invalidate the snapshot.
	var trace []string
	streaks := &stubStreakStore{trace: &trace}
	reader := &stubDayReader{days: days(t, "2026-07-01"), trace: &trace}
	engine := newTestEngine(streaks, reader)

	if _, err := engine.RecomputeWithin(context.Background(), nil, 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace) < 2 || trace[0] != "lock" || trace[1] != "history" {
		t.Fatalf("expected lock before history read, got order %v", trace)
	}
}

func TestRecomputeWithinStopsWhenLockFails(t *testing.T) {
	streaks := &stubStreakStore{lockErr: errors.New("lock unavailable")}
	reader := &stubDayReader{days: days(t, "2026-07-01")}
	engine := newTestEngine(streaks, reader)

	if _, err := engine.RecomputeWithin(context.Background(), nil, 1, 2); err == nil {
		t.Fatal("expected error from lock acquisition")
	}
	if reader.reads != 0 {
		t.Fatalf("history read %d times despite lock failure", reader.reads)
	}
	if len(streaks.upserts) != 0 {
		t.Fatalf("recompute wrote %d states despite lock failure", len(streaks.upserts))
	}
}

func TestRecomputeWithinEmptyHistoryZeroesRow(t *testing.T) {
	streaks := &stubStreakStore{}
	engine := newTestEngine(streaks, &stubDayReader{})

	st, err := engine.RecomputeWithin(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Current != 0 || st.Longest != 0 {
		t.Fatalf("recompute of empty history = %d/%d, want 0/0", st.Current, st.Longest)
	}
}
