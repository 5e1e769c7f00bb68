// Package worker runs the background assessment workers.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/adapters/mq/queue"
	"github.com/mentorled/fellowtrack/internal/domain/dedupe"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

const (
	defaultWorkerCount  = 4
	poolShutdownTimeout = 30 * time.Second
)

// Assessor runs one risk assessment end to end.
type Assessor interface {
	Assess(ctx context.Context, fellowID uuid.UUID, week int) (model.Assessment, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker consumes jobs and runs assessments until stopped.
type Worker struct {
	queue    Queue
	assessor Assessor
	guard    dedupe.Guard
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	log logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
			w.log = logger.Named(name)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a worker. The guard entry for each job is released once
// the job finishes, successfully or not.
func New(q Queue, a Assessor, g dedupe.Guard, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		assessor: a,
		guard:    g,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes jobs until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker and waits for the current job to finish.
// Safe to call more than once.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) {
	defer w.guard.Release(ctx, job.Key())

	a, err := w.assessor.Assess(ctx, job.FellowID, job.Week)
	if err != nil {
		w.log.Error(ctx, "assessment failed",
			logger.String("fellow_id", job.FellowID.String()),
			logger.Int("week", job.Week),
			logger.Error(err),
		)
		return
	}
	w.log.Debug(ctx, "assessment completed",
		logger.String("fellow_id", job.FellowID.String()),
		logger.Int("week", a.Week),
		logger.Float64("score", a.RiskScore),
		logger.String("level", string(a.RiskLevel)),
	)
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*Worker
	log     logger.Logger
}

// NewPool creates and wires workerCount workers.
func NewPool(workerCount int, q Queue, a Assessor, g dedupe.Guard) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		log:     logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = New(q, a, g, WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops all workers, draining in-flight jobs up to a bound.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.log.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
