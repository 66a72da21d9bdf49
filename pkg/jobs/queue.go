package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Enqueue when the buffer has no room.
	ErrQueueFull = errors.New("jobs: queue full")
	// ErrQueueStopped is returned when the queue is not running.
	ErrQueueStopped = errors.New("jobs: queue not running")
)

// Job is a unit of background work, such as rendering a payment ledger.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// ExhaustedFunc is invoked once a job has failed more than MaxRetries times.
type ExhaustedFunc func(Job, error)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	OnExhaust  ExhaustedFunc
	Logger     *zap.Logger
}

// Queue runs jobs on a fixed pool of goroutines. Failed jobs are retried after
// RetryDelay until MaxRetries is exceeded.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	logger  *zap.Logger
	jobs    chan Job

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	workers sync.WaitGroup
	retries sync.WaitGroup
}

// NewQueue builds a stopped queue.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  cfg.Logger.With(zap.String("queue", name)),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the workers. Calling Start on a running queue is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.running = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.workers.Add(1)
		go q.work(q.ctx)
	}
	q.logger.Info("queue started", zap.Int("workers", q.cfg.Workers), zap.Int("buffer", q.cfg.BufferSize))
}

// Stop cancels the workers and pending retries and waits for them to return.
// Jobs still buffered are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	q.workers.Wait()
	q.retries.Wait()
	q.logger.Info("queue stopped", zap.Int("dropped", len(q.jobs)))
}

// Enqueue adds job without blocking.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()
	if !running {
		return fmt.Errorf("%w: %s", ErrQueueStopped, q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, q.name)
	}
}

// Len reports how many jobs are waiting for a worker.
func (q *Queue) Len() int {
	return len(q.jobs)
}

func (q *Queue) work(ctx context.Context) {
	defer q.workers.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.handler(ctx, job); err != nil {
				q.fail(ctx, job, err)
			}
		}
	}
}

func (q *Queue) fail(ctx context.Context, job Job, err error) {
	job.Attempt++
	fields := []zap.Field{
		zap.String("job_id", job.ID),
		zap.String("type", job.Type),
		zap.Int("attempt", job.Attempt),
		zap.Error(err),
	}
	if job.Attempt > q.cfg.MaxRetries {
		q.logger.Error("job exhausted retries", fields...)
		if q.cfg.OnExhaust != nil {
			q.cfg.OnExhaust(job, err)
		}
		return
	}
	q.logger.Warn("job failed, scheduling retry", append(fields, zap.Duration("delay", q.cfg.RetryDelay))...)

	q.retries.Add(1)
	go func() {
		defer q.retries.Done()
		timer := time.NewTimer(q.cfg.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		// Retries wait for room rather than failing on a full buffer.
		select {
		case <-ctx.Done():
		case q.jobs <- job:
		}
	}()
}
