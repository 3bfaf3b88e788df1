package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cogscan/cogscan/domain"
)

// DefaultTimeout bounds a single scoring run
const DefaultTimeout = 5 * time.Minute

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ScoreTask is one unit of scoring work dispatched by the executor
type ScoreTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// ParallelExecutor runs scoring tasks concurrently with bounded parallelism.
// A run is all-or-nothing: cancellation or timeout fails the whole run,
// partial results are never merged.
type ParallelExecutor struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor using the host CPU count and a
// 5 minute timeout
func NewParallelExecutor() *ParallelExecutor {
	return &ParallelExecutor{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorWithProgress creates an executor with progress tracking.
// Worker counts of zero or below fall back to the host CPU count.
func NewParallelExecutorWithProgress(workers int, pm domain.ProgressManager) *ParallelExecutor {
	executor := NewParallelExecutor()
	if workers > 0 {
		executor.maxConcurrency = workers
	}
	executor.progress = pm
	return executor
}

// Execute runs tasks in parallel with the configured concurrency and timeout
func (e *ParallelExecutor) Execute(ctx context.Context, description string, tasks []ScoreTask) error {
	if len(tasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var progress domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		progress = e.progress.StartTask(description, len(tasks))
	}
	defer progress.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			progress.Describe(t.Name)
			err := t.Run(gCtx)
			progress.Increment(1)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{
					TaskName: t.Name,
					Err:      err,
				})
				errMu.Unlock()
			}

			// Collect failures instead of propagating them, so the
			// remaining tasks still run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("execution cancelled: %w", err)
	}

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}

	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutor) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for a whole run
func (e *ParallelExecutor) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}
