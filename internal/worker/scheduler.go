package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
)

// Cleaner drops idle in-memory state; ratelimit.MemoryLimiter satisfies it
type Cleaner interface {
	Cleanup() int
}

// Scheduler runs periodic housekeeping: limiter cleanup and the accounts gauge
type Scheduler struct {
	repo             account.Repository
	cleaner          Cleaner
	cleanupSchedule  string
	accountsSchedule string
	logger           *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
	entries   map[string]cron.EntryID
}

// NewScheduler creates a housekeeping scheduler. cleaner may be nil.
func NewScheduler(repo account.Repository, cleaner Cleaner, cleanupSchedule, accountsSchedule string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		repo:             repo,
		cleaner:          cleaner,
		cleanupSchedule:  cleanupSchedule,
		accountsSchedule: accountsSchedule,
		logger:           log,
		entries:          make(map[string]cron.EntryID),
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("scheduler is already running")
	}
	c := cron.New()

	if s.cleaner != nil && s.cleanupSchedule != "" {
		if err := s.add(c, "limiter_cleanup", s.cleanupSchedule, func() { s.cleanupLimiter() }); err != nil {
			return err
		}
	}
	if s.repo != nil && s.accountsSchedule != "" {
		if err := s.add(c, "accounts_gauge", s.accountsSchedule, func() { s.RefreshAccounts(ctx) }); err != nil {
			return err
		}
	}

	c.Start()
	s.scheduler = c

	s.logger.WithFields(map[string]interface{}{
		"jobs": len(s.entries),
	}).Info("Housekeeping scheduler started")
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	// Populate the gauge once instead of waiting for the first tick.
	s.RefreshAccounts(ctx)

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return
	}
	<-s.scheduler.Stop().Done()
	s.scheduler = nil
	s.entries = make(map[string]cron.EntryID)

	s.logger.Info("Housekeeping scheduler stopped")
}

func (s *Scheduler) add(c *cron.Cron, name, spec string, fn func()) error {
	id, err := c.AddFunc(spec, fn)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"schedule": spec,
		}).ErrorWithErr(err, "Failed to schedule job")
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.entries[name] = id
	return nil
}

func (s *Scheduler) cleanupLimiter() {
	removed := s.cleaner.Cleanup()
	s.logger.WithFields(map[string]interface{}{
		"removed": removed,
	}).Debug("Rate limiter cleanup")
}

// RefreshAccounts recomputes the per-status account gauge
func (s *Scheduler) RefreshAccounts(ctx context.Context) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.ErrorWithErr(err, "Failed to count accounts")
		}
		return
	}
	for _, status := range []string{account.StatusFree, account.StatusActivePaid} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	for status, n := range counts {
		metrics.SetAccounts(status, float64(n))
	}
}

// Jobs returns the names of the scheduled jobs
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
