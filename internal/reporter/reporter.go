// Package reporter implements the sole observability channel of the
// archive engine (spec §6): a per-file capability with update/complete
// operations. Grounded on original_source/serac/reporter.py's
// Reporter/NullReporter/StreamReporter/StdoutReporter hierarchy, with the
// Stdout implementation's single-line terminal rendering adapted from
// CodeCracker-oss-Picocrypt-NG/src/internal/cli/reporter.go.
package reporter

import (
	"fmt"
	"io"
	"sync"
)

// Status describes the outcome reported for one file during commit or
// restore.
type Status struct {
	Path   string
	Action string // e.g. "add", "content", "metadata", "delete", "restore"
	Err    error  // nil on success
}

// Reporter receives per-file progress and completion notices.
type Reporter interface {
	Update(status Status)
	Complete(status Status)
}

// Null discards every report; the default when --verbose is not passed.
type Null struct{}

func (Null) Update(Status)   {}
func (Null) Complete(Status) {}

// Stdout writes one line per update/complete to the given writer,
// matching the source's StdoutReporter but without its progress-bar
// machinery (serac reports discrete per-file status, not byte progress).
type Stdout struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdout returns a Stdout reporter writing to w.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) Update(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%-10s %s\n", status.Action, status.Path)
}

func (s *Stdout) Complete(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status.Err != nil {
		fmt.Fprintf(s.w, "%-10s %s: FAILED: %v\n", status.Action, status.Path, status.Err)
		return
	}
	fmt.Fprintf(s.w, "%-10s %s: done\n", status.Action, status.Path)
}
