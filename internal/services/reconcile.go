package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sixpillars/internal/models"
)

type StalePairLister interface {
	StaleStreakPairs(ctx context.Context, limit int) ([]models.StreakRef, error)
}

// Reconciler periodically repairs streak rows whose last_checkin_day lags
// behind the newest check-in for the pair, covering the crash window between
// a committed check-in and a retried streak update. Best-effort: failures
// are logged and retried next sweep.
type Reconciler struct {
	pairs    StalePairLister
	engine   *StreakEngine
	interval time.Duration
	batch    int
	log      *zap.Logger
}

func NewReconciler(pairs StalePairLister, engine *StreakEngine, interval time.Duration, batch int, log *zap.Logger) *Reconciler {
	return &Reconciler{pairs: pairs, engine: engine, interval: interval, batch: batch, log: log}
}

// Run blocks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	refs, err := r.pairs.StaleStreakPairs(ctx, r.batch)
	if err != nil {
		r.log.Error("stale streak scan failed", zap.Error(err))
		return
	}
	if len(refs) == 0 {
		return
	}
	r.log.Info("reconciling stale streaks", zap.Int("pairs", len(refs)))
	for _, ref := range refs {
		if _, err := r.engine.Recompute(ctx, ref.UserID, ref.CategoryID); err != nil {
			r.log.Error("streak reconcile failed",
				zap.Int("user_id", ref.UserID), zap.Int("category_id", ref.CategoryID), zap.Error(err))
		}
	}
}
