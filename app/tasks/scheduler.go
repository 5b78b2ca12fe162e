package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/pharma-pulse/app/metrics"
)

var (
	ErrQueueFull        = errors.New("task queue is full")
	ErrSchedulerStopped = errors.New("task scheduler is stopped")
)

const (
	DefaultWorkerCount = 5
	DefaultQueueSize   = 300
	DefaultTaskTimeout = 5 * time.Minute
	DefaultRetryDelay  = time.Second
	DefaultMaxDelay    = 30 * time.Second
)

type Options struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration

	// RetryDelay is the first backoff step; each retry doubles it up to
	// MaxDelay.
	RetryDelay time.Duration
	MaxDelay   time.Duration
}

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	workerCount int
	taskTimeout time.Duration
	retryDelay  time.Duration
	maxDelay    time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerCount: positive(opts.WorkerCount, DefaultWorkerCount),
		taskTimeout: positive(opts.TaskTimeout, DefaultTaskTimeout),
		retryDelay:  positive(opts.RetryDelay, DefaultRetryDelay),
		maxDelay:    positive(opts.MaxDelay, DefaultMaxDelay),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, positive(opts.QueueSize, DefaultQueueSize)),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Debug("Task scheduler started", "workers", s.workerCount)
}

// Stop cancels running tasks and waits for the workers to exit. Tasks still
// queued are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if s.ctx.Err() != nil {
		return ErrSchedulerStopped
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		metrics.Tasks.WithLabelValues(string(task.GetType()), "dropped").Inc()
		return ErrQueueFull
	}
}

// QueueLength reports how many tasks are waiting for a worker.
func (s *Scheduler) QueueLength() int {
	return len(s.taskQueue)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		metrics.Tasks.WithLabelValues(string(task.GetType()), "success").Inc()
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.fail(task, err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := s.backoff(task.GetRetryCount())
	metrics.Tasks.WithLabelValues(string(task.GetType()), "retry").Inc()

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "target", task.GetTarget(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.fail(task, err)
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				s.fail(task, err)
			}
		}
	}()
}

func (s *Scheduler) fail(task TaskInterface, err error) {
	metrics.Tasks.WithLabelValues(string(task.GetType()), "failure").Inc()
	task.OnFailure(err)
}

// backoff returns the delay before the given retry: RetryDelay doubled per
// previous retry, capped at MaxDelay.
func (s *Scheduler) backoff(retry int) time.Duration {
	delay := s.retryDelay
	for i := 1; i < retry && delay < s.maxDelay; i++ {
		delay *= 2
	}
	return min(delay, s.maxDelay)
}

func positive[T int | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}
