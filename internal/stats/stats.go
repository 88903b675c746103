// Package stats runs a cron-scheduled, read-only census of the capsule
// store and exports the counts as Prometheus gauges. It never mutates
// records; in particular nothing here (or anywhere else) moves a capsule
// into or out of the archived status.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"capsuledb/pkg/capsule"
	"capsuledb/pkg/logger"
	"capsuledb/pkg/models"
	"capsuledb/pkg/store"
	"capsuledb/pkg/telemetry"
)

// Start launches the scheduler when enabled and returns a cancel func.
// An empty cron expression defaults to every five minutes.
func Start(ctx context.Context, st *store.Store, enabled bool, cronExpr string) (context.CancelFunc, error) {
	if !enabled {
		logger.Info("stats_disabled")
		return func() {}, nil
	}
	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("stats_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid stats cron expression: %s", cronExpr)
	}
	logger.Info("stats_enabled", "cron", cronExpr)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, st, cronExpr)
	return cancel, nil
}

// runScheduler computes the next tick with gronx and sleeps until then.
func runScheduler(ctx context.Context, st *store.Store, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("stats_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("stats_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("stats_scheduler_stopping")
			return
		}

		if err := RunOnce(st); err != nil {
			logger.Error("stats_run_error", "error", err)
		}
	}
}

// RunOnce scans the store and updates the status gauges. Statuses are
// derived for an anonymous viewer, so "unlocked" counts publicly unlocked
// capsules and "unlock_pending" covers unlocked-but-restricted ones.
func RunOnce(st *store.Store) error {
	all, err := st.All()
	if err != nil {
		return err
	}
	now := uint64(time.Now().UTC().UnixNano())
	counts := map[models.CapsuleStatus]int{
		models.StatusSealed:        0,
		models.StatusUnlockPending: 0,
		models.StatusUnlocked:      0,
	}
	for i := range all {
		counts[capsule.DeriveStatus(&all[i], now, "")]++
	}
	for status, n := range counts {
		telemetry.CapsulesByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	telemetry.StoreDiskBytes.Set(float64(st.DiskUsage()))
	logger.Debug("stats_run_complete", "total", len(all))
	return nil
}
