package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// SpinnerProgressReporter prints migration headers and spins while transactions confirm
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	started time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter on stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerProgressReporter{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Spinner {
		if !r.spinner.Active() {
			r.started = time.Now()
			r.spinner.Start()
		}
		r.spinner.Suffix = fmt.Sprintf(" %s (%s)", event.Message, time.Since(r.started).Round(time.Second))
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
	if event.Message == "" {
		return
	}
	if event.Total > 0 {
		fmt.Fprintf(r.out, "%s %s\n",
			color.New(color.FgWhite, color.Faint).Sprintf("[%d/%d]", event.Current, event.Total),
			color.New(color.FgCyan, color.Bold).Sprint(event.Message))
		return
	}
	fmt.Fprintln(r.out, event.Message)
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
