// Package runner executes external commands and captures their outcome.
// It is the single choke point between shipit and every external tool
// (linters, test runners, builders), which keeps the rest of the code
// testable against an in-memory fake.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrTimeout marks a command that exceeded its execution budget. Callers
// treat it as an ordinary failure of the step that ran the command.
var ErrTimeout = errors.New("command timed out")

// Result holds the exit status and combined stdout+stderr of one command.
type Result struct {
	ExitCode int
	Output   string
}

// Executor runs a command in a directory and reports its outcome. A non-zero
// exit is returned as an error alongside the Result so callers can surface
// the captured output verbatim.
type Executor interface {
	Run(ctx context.Context, dir string, argv []string) (Result, error)
}

// ProcExecutor implements Executor with real processes.
type ProcExecutor struct{}

// New returns a ProcExecutor.
func New() *ProcExecutor {
	return &ProcExecutor{}
}

// Run executes argv in dir, honoring the context deadline. The returned
// Result always carries whatever output the command produced, even on
// failure or timeout.
func (e *ProcExecutor) Run(ctx context.Context, dir string, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	res := Result{
		ExitCode: -1, // command never started
		Output:   strings.TrimSpace(string(out)),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() == context.DeadlineExceeded {
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
		return res, fmt.Errorf("%s: %w", strings.Join(argv, " "), ErrTimeout)
	}
	if err != nil {
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
		return res, fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return res, nil
}
