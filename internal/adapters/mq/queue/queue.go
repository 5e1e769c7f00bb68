// Package queue provides the bounded in-memory job queue feeding the
// assessment workers.
package queue

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/pkg/metrics"
)

const defaultCapacity = 1024

// Job identifies one assessment to run.
type Job struct {
	FellowID uuid.UUID
	Week     int
}

// Key returns the dedupe key for the job.
func (j Job) Key() string {
	return j.FellowID.String() + ":" + strconv.Itoa(j.Week)
}

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a job. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel delivering jobs until the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len() int

	// Close stops the queue. Enqueue after Close returns false.
	Close() error
}

// InMemory implements Queue on a buffered channel.
type InMemory struct {
	jobs   chan Job
	mu     sync.RWMutex
	closed bool
}

// Option applies a configuration option to the InMemory queue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the queue.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(opts ...Option) *InMemory {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	metrics.UpdateAssessmentQueueSize(0)
	return &InMemory{jobs: make(chan Job, cfg.capacity)}
}

// Enqueue adds a job without blocking.
func (q *InMemory) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.jobs <- j:
		metrics.UpdateAssessmentQueueSize(len(q.jobs))
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Dequeue returns a channel delivering jobs until the queue is closed
// or ctx is canceled.
func (q *InMemory) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.UpdateAssessmentQueueSize(len(q.jobs))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued jobs.
func (q *InMemory) Len() int { return len(q.jobs) }

// Close stops the queue.
func (q *InMemory) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}
