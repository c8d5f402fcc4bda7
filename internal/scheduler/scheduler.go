// Package scheduler runs the periodic maintenance jobs in-process: the
// expired-trial cleanup and system log pruning.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
)

const pruneInterval = 24 * time.Hour

// CleanupRunner is satisfied by services.CleanupService.
type CleanupRunner interface {
	Run(ctx context.Context) (*dto.CleanupSummary, error)
}

// PruneFunc deletes stale log rows and reports how many were removed.
type PruneFunc func(ctx context.Context) (int64, error)

type Scheduler struct {
	cleanup         CleanupRunner
	prune           PruneFunc
	cleanupInterval time.Duration
	pruneInterval   time.Duration
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// New returns a scheduler. A zero cleanupInterval or nil prune disables
// that job.
func New(cleanup CleanupRunner, cleanupInterval time.Duration, prune PruneFunc) *Scheduler {
	return &Scheduler{
		cleanup:         cleanup,
		prune:           prune,
		cleanupInterval: cleanupInterval,
		pruneInterval:   pruneInterval,
		stopChan:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if s.cleanup != nil && s.cleanupInterval > 0 {
		slog.Info("starting cleanup scheduler", "interval", s.cleanupInterval)
		s.loop(ctx, s.cleanupInterval, s.runCleanup)
	} else {
		slog.Info("cleanup scheduler disabled")
	}
	if s.prune != nil {
		s.loop(ctx, s.pruneInterval, s.runPrune)
	}
}

// Stop ends both loops and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		slog.Info("scheduler stopped")
	})
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, job func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		job(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	start := time.Now()
	summary, err := s.cleanup.Run(ctx)
	if err != nil {
		slog.Error("scheduled cleanup failed", "action", "cleanup", "error", err, "duration", time.Since(start))
		return
	}
	if summary.ProcessedUsers > 0 {
		slog.Info("scheduled cleanup completed", "processed", summary.ProcessedUsers, "duration", time.Since(start))
	} else {
		slog.Debug("no expired trials to clean up")
	}
}

func (s *Scheduler) runPrune(ctx context.Context) {
	deleted, err := s.prune(ctx)
	if err != nil {
		slog.Error("log pruning failed", "action", "prune_logs", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("log pruning completed", "deleted", deleted)
	}
}
