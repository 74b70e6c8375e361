// Package runner executes a single test in a fresh child process. The child
// is this same binary re-invoked with a hidden worker flag naming the test's
// position in the canonical selection order; parent and child derive that
// order from the same filter, so the index resolves to the same test on both
// sides.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner spawns isolated test children. One Runner serves a whole run; the
// filter and color mode are fixed at construction so every child sees the
// selection the parent computed.
type Runner struct {
	exe    string
	filter string
	color  bool
	stdout io.Writer
	stderr io.Writer
}

// New resolves the current executable for re-invocation. Child stdout is
// written to stdout, which lets the caller tee it into per-test sinks.
func New(filterExpr string, color bool, stdout io.Writer) (*Runner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving executable for process isolation: %w", err)
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Runner{
		exe:    exe,
		filter: filterExpr,
		color:  color,
		stdout: stdout,
		stderr: os.Stderr,
	}, nil
}

// Status is the decoded outcome of one isolated run.
type Status struct {
	// ExitCode is the child's exit code; signal deaths are folded to
	// 128+signal following the shell convention.
	ExitCode int
	// SpawnErr is set when the child never ran, which callers treat as a
	// cue to fall back to in-process execution.
	SpawnErr error
}

// Passed reports a clean child exit.
func (s Status) Passed() bool { return s.SpawnErr == nil && s.ExitCode == 0 }

// Failed reports an orderly test failure in the child.
func (s Status) Failed() bool { return s.SpawnErr == nil && s.ExitCode == 1 }

// Abnormal reports a crash or any other unexpected termination.
func (s Status) Abnormal() bool {
	return s.SpawnErr == nil && s.ExitCode != 0 && s.ExitCode != 1
}

// RunIsolated spawns the child for the test at the given canonical selection
// index and blocks until it exits. A non-nil capture receives a copy of the
// child's stdout, which the harness hands to result sinks.
func (r *Runner) RunIsolated(ctx context.Context, index int, capture io.Writer) Status {
	stdout := r.stdout
	if capture != nil {
		stdout = io.MultiWriter(r.stdout, capture)
	}
	cmd := exec.CommandContext(ctx, r.exe, r.buildArgs(index)...)
	cmd.Stdout = stdout
	cmd.Stderr = r.stderr

	if err := cmd.Start(); err != nil {
		return Status{ExitCode: -1, SpawnErr: err}
	}
	err := cmd.Wait()
	if err == nil {
		return Status{ExitCode: 0}
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return Status{ExitCode: decodeExitCode(ee.ProcessState)}
	}
	return Status{ExitCode: -1, SpawnErr: err}
}

// buildArgs renders the child command line. The child recomputes the same
// selection from the same filter, so only the index, filter, and resolved
// color mode travel.
func (r *Runner) buildArgs(index int) []string {
	args := []string{fmt.Sprintf("--worker=%d", index)}
	if r.filter != "" {
		args = append(args, fmt.Sprintf("--filter=%s", r.filter))
	}
	colorArg := "no"
	if r.color {
		colorArg = "yes"
	}
	return append(args, "--color="+colorArg)
}

// ReasonForStatus renders the diagnostic for an abnormal child exit code.
func ReasonForStatus(code int) string {
	return reasonForExit(code)
}
