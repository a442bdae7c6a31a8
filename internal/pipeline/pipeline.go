// Package pipeline runs the ordered quality gates that stand between a
// repository and a release. Gates run strictly in sequence and the pipeline
// stops at the first failing required gate, so cheap checks are configured
// before expensive ones.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/joescharf/shipit/internal/runner"
)

// Gate is one named quality check. Command is the argv to execute. A failed
// gate with Required unset is recorded but does not stop the run.
type Gate struct {
	Name     string   `mapstructure:"name"`
	Command  []string `mapstructure:"command"`
	Required bool     `mapstructure:"required"`
}

// Result is the outcome of one gate that actually ran. Gates after a hard
// stop never appear in a result list, which distinguishes "not reached" from
// "ran and failed".
type Result struct {
	Gate     string
	Passed   bool
	ExitCode int
	Output   string
}

// GateError reports the first required gate that failed. Results holds every
// gate that ran, in order, with the failed gate last.
type GateError struct {
	Gate    string
	Results []Result
	Err     error
}

func (e *GateError) Error() string {
	last := e.Results[len(e.Results)-1]
	if last.Output != "" {
		return fmt.Sprintf("gate %q failed (exit %d):\n%s", e.Gate, last.ExitCode, last.Output)
	}
	return fmt.Sprintf("gate %q failed (exit %d): %v", e.Gate, last.ExitCode, e.Err)
}

func (e *GateError) Unwrap() error { return e.Err }

// Reporter receives progress notifications as gates run. Implemented by the
// CLI's UI; a nil Reporter is valid.
type Reporter interface {
	GateStart(name string)
	GateDone(r Result)
}

// Pipeline executes gates via an Executor, one at a time, each under its own
// timeout. Identical inputs produce identical outcomes: the pipeline itself
// has no time- or randomness-dependent branching.
type Pipeline struct {
	Exec     runner.Executor
	Dir      string
	Timeout  time.Duration
	Reporter Reporter
}

// Run executes gates in order. On a required-gate failure it returns the
// results of every gate that ran together with a *GateError; later gates are
// not attempted. Optional-gate failures are recorded and the run continues.
func (p *Pipeline) Run(ctx context.Context, gates []Gate) ([]Result, error) {
	results := make([]Result, 0, len(gates))

	for _, gate := range gates {
		if p.Reporter != nil {
			p.Reporter.GateStart(gate.Name)
		}

		res, err := p.runGate(ctx, gate)
		results = append(results, res)
		if p.Reporter != nil {
			p.Reporter.GateDone(res)
		}

		if err != nil && gate.Required {
			return results, &GateError{Gate: gate.Name, Results: results, Err: err}
		}
	}
	return results, nil
}

func (p *Pipeline) runGate(ctx context.Context, gate Gate) (Result, error) {
	gateCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		gateCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	res, err := p.Exec.Run(gateCtx, p.Dir, gate.Command)
	return Result{
		Gate:     gate.Name,
		Passed:   err == nil,
		ExitCode: res.ExitCode,
		Output:   res.Output,
	}, err
}
