package domain

// ProgressManager creates progress indicators for long-running tasks
type ProgressManager interface {
	// StartTask begins tracking a task with the given total number of steps
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered to a terminal
	IsInteractive() bool

	// Close releases any resources held by the manager
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	// Increment advances the progress by n steps
	Increment(n int)

	// Describe updates the task description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}
