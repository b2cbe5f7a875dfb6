// AngelaMos | 2026
// tasks.go

package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TaskRunner dispatches best-effort background work: media cleanup after a
// page delete, view-counter increments on renderer reads. Tasks run at most
// once, failures are logged and never reach the caller.
type TaskRunner struct {
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewTaskRunner(timeout time.Duration, logger *slog.Logger) *TaskRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskRunner{
		timeout: timeout,
		logger:  logger,
	}
}

// Go runs fn on its own goroutine with a fresh timeout context, detached
// from the request that spawned it.
func (r *TaskRunner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("background task panicked",
					"task", name,
					"panic", p,
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Warn("background task failed",
				"task", name,
				"error", err,
			)
		}
	}()
}

// Wait blocks until all dispatched tasks finish. Used on shutdown and in
// tests that need to observe task side effects.
func (r *TaskRunner) Wait() {
	r.wg.Wait()
}
