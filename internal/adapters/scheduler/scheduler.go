// Package scheduler periodically queues an assessment for every active
// fellow, so risk levels stay current without manual triggering.
package scheduler

import (
	"context"
	"time"

	"github.com/mentorled/fellowtrack/internal/adapters/mq/queue"
	"github.com/mentorled/fellowtrack/internal/domain/dedupe"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

const defaultInterval = 24 * time.Hour

// FellowLister supplies the fellows to assess each cycle.
type FellowLister interface {
	ActiveFellows(ctx context.Context) ([]model.Fellow, error)
}

// Enqueuer accepts assessment jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, j queue.Job) bool
}

// Scheduler runs assessment sweeps on a fixed interval.
type Scheduler struct {
	store    FellowLister
	queue    Enqueuer
	guard    dedupe.Guard
	interval time.Duration
	start    time.Time
	now      func() time.Time
	log      logger.Logger

	done chan struct{}
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the sweep cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithProgramStart anchors week numbering to the cohort start date.
func WithProgramStart(t time.Time) Option {
	return func(s *Scheduler) {
		if !t.IsZero() {
			s.start = t
		}
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a scheduler. Week numbering starts at 1 on the program
// start date; without one, it anchors to construction time.
func New(store FellowLister, q Enqueuer, g dedupe.Guard, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		queue:    q,
		guard:    g,
		interval: defaultInterval,
		now:      time.Now,
		log:      logger.Named("scheduler"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.start.IsZero() {
		s.start = s.now()
	}
	return s
}

// CurrentWeek returns the 1-based program week at time t.
func (s *Scheduler) CurrentWeek(t time.Time) int {
	if t.Before(s.start) {
		return 1
	}
	return int(t.Sub(s.start)/(7*24*time.Hour)) + 1
}

// Run sweeps immediately, then on every tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

func (s *Scheduler) sweep(ctx context.Context) {
	week := s.CurrentWeek(s.now())

	fellows, err := s.store.ActiveFellows(ctx)
	if err != nil {
		s.log.Error(ctx, "list fellows for sweep", logger.Error(err))
		return
	}

	queued := 0
	for _, f := range fellows {
		job := queue.Job{FellowID: f.ID, Week: week}
		if !s.guard.Acquire(ctx, job.Key()) {
			continue
		}
		if !s.queue.Enqueue(ctx, job) {
			s.guard.Release(ctx, job.Key())
			s.log.Warn(ctx, "queue full during sweep",
				logger.String("fellow_id", f.ID.String()),
				logger.Int("week", week))
			continue
		}
		queued++
	}

	s.log.Info(ctx, "assessment sweep queued",
		logger.Int("week", week),
		logger.Int("fellows", len(fellows)),
		logger.Int("queued", queued))
}
