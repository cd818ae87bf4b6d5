package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/schedule"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
)

// ReviewSweepWorker periodically scans active assessments and logs the ones
// whose next review date has passed, so overdue reviews surface in operations
// monitoring without anyone opening the dashboard.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type ReviewSweepWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewReviewSweepWorker creates a new worker for the overdue review sweep
func NewReviewSweepWorker(repo interfaces.Repository, interval time.Duration) *ReviewSweepWorker {
	return &ReviewSweepWorker{
		repo:     repo,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop
// - Initial sweep and periodic sweeps both run in a background goroutine
// - Does not block server startup
func (w *ReviewSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Review sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReviewSweepWorker) Stop() {
	logging.Default().Info("Review sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Review sweep worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *ReviewSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.sweep(ctx); err != nil {
		logging.Default().Error("Initial review sweep failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("Review sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Review sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Review sweep worker context cancelled")
			return
		}
	}
}

// sweep performs a single scan over the active assessments
func (w *ReviewSweepWorker) sweep(ctx context.Context) error {
	startTime := w.now()

	items, _, err := w.repo.Assessment().List(ctx, interfaces.ListOptions{
		Status: types.StatusActive,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to list active assessments")
	}

	overdue := 0
	for _, a := range items {
		if a.LastReviewDate.IsZero() {
			continue
		}
		next, err := schedule.NextReview(a.LastReviewDate, a.ReviewPeriodDays)
		if err != nil {
			return goerr.Wrap(err, "failed to compute next review date",
				goerr.V("event_number", a.EventNumber))
		}
		if !schedule.IsOverdue(next, startTime) {
			continue
		}

		overdue++
		logging.Default().Warn("assessment review is overdue",
			"event_number", a.EventNumber,
			"title", a.Title,
			"risk_owner", a.RiskOwner,
			"next_review", next,
			"overdue_days", int(startTime.Sub(next).Hours()/24),
		)
	}

	logging.Default().Info("Review sweep completed",
		"active", len(items),
		"overdue", overdue,
		"duration", time.Since(startTime).String())

	return nil
}
