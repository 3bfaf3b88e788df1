package service

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/cogscan/cogscan/domain"
)

// IsInteractiveEnvironment reports whether progress bars can be rendered.
// CI environments and redirected output get plain logs instead.
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewProgressManager creates a progress manager for a scoring run. Progress
// is rendered on stderr only when enabled and the environment can show it.
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return &NoOpProgressManager{}
}

// NewProgressManagerWithWriter creates a progress manager that renders to
// the given writer regardless of the environment
func NewProgressManagerWithWriter(w io.Writer) domain.ProgressManager {
	return &barProgressManager{writer: w}
}

// barProgressManager renders one progress bar per scoring phase
type barProgressManager struct {
	writer io.Writer
	mu     sync.Mutex
	tasks  []*barTask
}

// StartTask opens a bar counting files, or a spinner when the file count is
// not known up front
func (pm *barProgressManager) StartTask(description string, total int) domain.TaskProgress {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(pm.writer)
		}),
	}
	if total > 0 {
		opts = append(opts,
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionShowIts(),
		)
	} else {
		total = -1
		opts = append(opts, progressbar.OptionSpinnerType(14))
	}

	task := &barTask{
		bar:   progressbar.NewOptions(total, opts...),
		label: description,
	}
	pm.mu.Lock()
	pm.tasks = append(pm.tasks, task)
	pm.mu.Unlock()
	return task
}

// IsInteractive returns true if progress bars should be shown
func (pm *barProgressManager) IsInteractive() bool {
	return true
}

// Close finishes any bar still running
func (pm *barProgressManager) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, task := range pm.tasks {
		_ = task.bar.Finish()
	}
	pm.tasks = nil
}

// barTask tracks one phase of the run. The phase label stays on screen;
// Describe only swaps the currently scored file next to it.
type barTask struct {
	bar   *progressbar.ProgressBar
	label string
}

// Increment adds n scored files to the bar
func (t *barTask) Increment(n int) {
	_ = t.bar.Add(n)
}

// Describe shows the file currently being scored
func (t *barTask) Describe(current string) {
	if current == "" {
		t.bar.Describe(t.label)
		return
	}
	t.bar.Describe(fmt.Sprintf("%s (%s)", t.label, current))
}

// Complete marks the task as finished
func (t *barTask) Complete() {
	_ = t.bar.Finish()
}

// NoOpProgressManager implements ProgressManager with no-op methods
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false for no-op manager
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close is a no-op
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress implements TaskProgress with no-op methods
type NoOpTaskProgress struct{}

// Increment is a no-op
func (tp *NoOpTaskProgress) Increment(_ int) {}

// Describe is a no-op
func (tp *NoOpTaskProgress) Describe(_ string) {}

// Complete is a no-op
func (tp *NoOpTaskProgress) Complete() {}
