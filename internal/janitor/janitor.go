// Package janitor runs deferred cleanup work off the request path.
package janitor

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/studymate/internal/logger"
)

// Task is one unit of deferred cleanup.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler accepts cleanup tasks.
type Scheduler interface {
	Schedule(t Task)
}

// Failure records a task that returned an error.
type Failure struct {
	Task string
	Err  error
}

// Worker runs tasks one at a time on a background goroutine. Failures are
// logged and kept for inspection.
type Worker struct {
	log   *logger.Logger
	tasks chan Task
	ctx   context.Context
	stop  context.CancelFunc
	wg    sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	failures []Failure
}

// NewWorker starts a worker with a queue of the given size.
func NewWorker(log *logger.Logger, queueSize int) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		log:   logger.OrNop(log).With("component", "janitor"),
		tasks: make(chan Task, queueSize),
		ctx:   ctx,
		stop:  cancel,
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for t := range w.tasks {
		w.run(t)
	}
}

func (w *Worker) run(t Task) {
	if err := t.Run(w.ctx); err != nil {
		w.log.Warn("cleanup task failed", "task", t.Name, "error", err)
		w.mu.Lock()
		w.failures = append(w.failures, Failure{Task: t.Name, Err: err})
		w.mu.Unlock()
	}
}

// Schedule enqueues a task. When the queue is full the task is dropped with a
// warning; cleanup is retried on the next schedule anyway.
func (w *Worker) Schedule(t Task) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("cleanup task after close dropped", "task", t.Name)
		return
	}
	select {
	case w.tasks <- t:
	default:
		w.log.Warn("cleanup queue full, task dropped", "task", t.Name)
	}
}

// Failures returns a copy of the recorded failures.
func (w *Worker) Failures() []Failure {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Failure, len(w.failures))
	copy(out, w.failures)
	return out
}

// Close stops accepting tasks and waits for queued ones to drain, or for ctx
// to expire, whichever comes first.
func (w *Worker) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.tasks)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.stop()
		return nil
	case <-ctx.Done():
		w.stop()
		return ctx.Err()
	}
}

// Inline runs tasks synchronously in Schedule. Used by tests and short-lived
// commands that want cleanup finished before they exit.
type Inline struct {
	mu       sync.Mutex
	failures []Failure
	runs     int
}

func (in *Inline) Schedule(t Task) {
	err := t.Run(context.Background())
	in.mu.Lock()
	defer in.mu.Unlock()
	in.runs++
	if err != nil {
		in.failures = append(in.failures, Failure{Task: t.Name, Err: err})
	}
}

// Runs returns how many tasks have run.
func (in *Inline) Runs() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.runs
}

// Err joins every recorded failure, or returns nil.
func (in *Inline) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	errs := make([]error, 0, len(in.failures))
	for _, f := range in.failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
