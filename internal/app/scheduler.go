package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger drops expired cache entries.
type Purger interface {
	Purge() int
}

// Reconciler recomputes enrolled counters from enrollment rows.
type Reconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

// Scheduler runs the background jobs: the cache janitor and the enrollment reconciler.
// A zero interval disables a job.
type Scheduler struct {
	caches            Purger
	reconciler        Reconciler
	purgeInterval     time.Duration
	reconcileInterval time.Duration
	logger            *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates the background jobs. A zero interval disables the job.
func NewScheduler(
	caches Purger,
	reconciler Reconciler,
	purgeInterval, reconcileInterval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		caches:            caches,
		reconciler:        reconciler,
		purgeInterval:     purgeInterval,
		reconcileInterval: reconcileInterval,
		logger:            logger,
		stopChan:          make(chan struct{}),
	}
}

// Start launches the enabled jobs. They stop on Stop or when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("purge_interval", s.purgeInterval),
		zap.Duration("reconcile_interval", s.reconcileInterval))

	if s.purgeInterval > 0 {
		s.run(ctx, "cache janitor", s.purgeInterval, s.purgeCaches)
	}
	if s.reconcileInterval > 0 {
		s.run(ctx, "enrollment reconciler", s.reconcileInterval, s.reconcile)
	}
}

// Stop signals every job and waits for them to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				job(ctx)
			case <-s.stopChan:
				s.logger.Info("Background job stopped", zap.String("job", name))
				return
			case <-ctx.Done():
				s.logger.Info("Background job cancelled", zap.String("job", name))
				return
			}
		}
	}()
}

func (s *Scheduler) purgeCaches(context.Context) {
	if n := s.caches.Purge(); n > 0 {
		s.logger.Debug("Expired cache entries purged", zap.Int("count", n))
	}
}

func (s *Scheduler) reconcile(ctx context.Context) {
	n, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.logger.Error("Failed to reconcile enrolled counters", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Enrolled counters reconciled", zap.Int64("lessons", n))
	}
}
