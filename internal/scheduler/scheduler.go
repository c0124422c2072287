// Package scheduler runs periodic history maintenance.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/cardsmith/internal/metrics"
	"github.com/donaldgifford/cardsmith/internal/store"
)

const defaultJobTimeout = 5 * time.Minute

// Scheduler prunes generation history older than a maximum age on a
// fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	store   store.Store
	log     *slog.Logger
	maxAge  time.Duration
	timeout time.Duration
	now     func() time.Time

	retentionEntryID cron.EntryID
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNowFunc overrides the clock used to compute the retention cutoff.
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = fn
	}
}

// WithJobTimeout bounds a single retention run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewScheduler creates a Scheduler that runs retention every interval.
func NewScheduler(
	st store.Store,
	interval time.Duration,
	maxAge time.Duration,
	log *slog.Logger,
	opts ...Option,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("retention interval must be positive (got %s)", interval)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("retention max age must be positive (got %s)", maxAge)
	}

	s := &Scheduler{
		cron:    cron.New(),
		store:   st,
		log:     log,
		maxAge:  maxAge,
		timeout: defaultJobTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	id, err := s.cron.AddFunc("@every "+interval.String(), s.runRetention)
	if err != nil {
		return nil, fmt.Errorf("registering retention job: %w", err)
	}
	s.retentionEntryID = id

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "max_age", s.maxAge)
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes the next retention run time.
func (s *Scheduler) SyncNextRunTimestamps() {
	next := s.cron.Entry(s.retentionEntryID).Next
	if !next.IsZero() {
		metrics.RetentionNextRunTimestamp.Set(float64(next.Unix()))
	}
}

// RunRetention deletes history older than the configured maximum age and
// returns the number of rows removed.
func (s *Scheduler) RunRetention(ctx context.Context) (int64, error) {
	now := s.now()
	cutoff := now.Add(-s.maxAge)

	n, err := s.store.PruneOlderThan(ctx, cutoff)
	metrics.RetentionLastRunTimestamp.Set(float64(now.Unix()))
	if err != nil {
		metrics.RetentionRunsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("pruning history: %w", err)
	}

	metrics.RetentionRunsTotal.WithLabelValues("succeeded").Inc()
	metrics.HistoryPrunedTotal.Add(float64(n))
	return n, nil
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	defer s.SyncNextRunTimestamps()

	s.log.Debug("scheduled retention starting")
	n, err := s.RunRetention(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.log.Error("scheduled retention timed out", "timeout", s.timeout)
	case err != nil:
		s.log.Error("scheduled retention failed", "error", err)
	case n > 0:
		s.log.Info("history pruned", "rows", n)
	}
}
