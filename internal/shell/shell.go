// Package shell runs external processes for existence checks, version
// queries, and tools that persist their own settings (e.g. `go env -w`).
// It has no knowledge of mirrors or specific tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// DefaultTimeout bounds a single probe so a hung tool cannot stall
// detection indefinitely.
const DefaultTimeout = 10 * time.Second

// Output captures the result of one command execution. A non-zero exit is a
// normal, reportable outcome (Success=false), not an error.
type Output struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Runner executes external commands. The interface exists so detectors and
// command-backed adapters can be tested with a fake.
type Runner interface {
	// Run executes cmd with args and captures its output. It returns an
	// error only when the process could not be spawned or the context
	// expired; a clean spawn with a non-zero exit returns Success=false
	// and a nil error.
	Run(ctx context.Context, cmd string, args ...string) (Output, error)

	// LookPath resolves the executable's location, or "" when absent.
	LookPath(cmd string) string
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Timeout bounds each invocation; DefaultTimeout when zero.
	Timeout time.Duration
}

// Run executes the command with a bounded timeout.
func (r *ExecRunner) Run(ctx context.Context, cmd string, args ...string) (Output, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd, args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Output{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Ran but exited non-zero: a normal outcome.
			return out, nil
		}
		return out, &mirror.ProbeError{Command: cmd, Err: err}
	}
	return out, nil
}

// LookPath resolves the executable's location via $PATH.
func (r *ExecRunner) LookPath(cmd string) string {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return ""
	}
	return path
}

// versionFlags are tried in priority order; the first successful non-empty
// first line wins.
var versionFlags = []string{"--version", "-v", "version"}

// Version queries a tool's version, trying the known flag spellings in
// order. It returns "" when no spelling produced output.
func Version(ctx context.Context, r Runner, cmd string) string {
	for _, flag := range versionFlags {
		out, err := r.Run(ctx, cmd, flag)
		if err != nil || !out.Success {
			continue
		}
		if line := FirstLine(out.Stdout); line != "" {
			return line
		}
		// Some tools print the version banner on stderr.
		if line := FirstLine(out.Stderr); line != "" {
			return line
		}
	}
	return ""
}

// FirstLine returns the trimmed first line of s.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
