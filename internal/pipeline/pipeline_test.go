package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/shipit/internal/runner"
)

// fakeExecutor fails any command whose argv contains a word in failOn and
// records every invocation.
type fakeExecutor struct {
	calls  [][]string
	failOn map[string]string // command word -> output
}

func (f *fakeExecutor) Run(ctx context.Context, dir string, argv []string) (runner.Result, error) {
	f.calls = append(f.calls, argv)
	for _, word := range argv {
		if out, ok := f.failOn[word]; ok {
			return runner.Result{ExitCode: 1, Output: out}, fmt.Errorf("%s: exit status 1", strings.Join(argv, " "))
		}
	}
	return runner.Result{ExitCode: 0, Output: "ok"}, nil
}

func fiveGates() []Gate {
	return []Gate{
		{Name: "lint", Command: []string{"ruff", "check", "."}, Required: true},
		{Name: "format-check", Command: []string{"black", "--check", "."}, Required: true},
		{Name: "tests", Command: []string{"pytest", "-q"}, Required: true},
		{Name: "build", Command: []string{"python", "-m", "build"}, Required: true},
		{Name: "package-metadata-check", Command: []string{"twine", "check", "dist/*"}, Required: true},
	}
}

func TestRun_AllPass(t *testing.T) {
	exec := &fakeExecutor{}
	p := &Pipeline{Exec: exec, Dir: "/repo"}

	results, err := p.Run(context.Background(), fiveGates())
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Len(t, exec.calls, 5)
	for _, r := range results {
		assert.True(t, r.Passed)
		assert.Equal(t, 0, r.ExitCode)
	}
}

func TestRun_StopsAtFirstRequiredFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: map[string]string{"black": "would reformat main.py"}}
	p := &Pipeline{Exec: exec, Dir: "/repo"}

	results, err := p.Run(context.Background(), fiveGates())
	require.Error(t, err)

	// Gate 2 of 5 failed: exactly two results, exactly two executions.
	assert.Len(t, results, 2)
	assert.Len(t, exec.calls, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.Equal(t, "format-check", results[1].Gate)

	var ge *GateError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "format-check", ge.Gate)
	assert.Contains(t, ge.Error(), "would reformat main.py")
}

func TestRun_OptionalFailureContinues(t *testing.T) {
	gates := fiveGates()
	gates[2].Required = false // tests may fail without stopping the run

	exec := &fakeExecutor{failOn: map[string]string{"pytest": "1 failed"}}
	p := &Pipeline{Exec: exec, Dir: "/repo"}

	results, err := p.Run(context.Background(), gates)
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Len(t, exec.calls, 5)
	assert.False(t, results[2].Passed)
	assert.True(t, results[4].Passed)
}

func TestRun_FirstGateFails(t *testing.T) {
	exec := &fakeExecutor{failOn: map[string]string{"ruff": "E501 line too long"}}
	p := &Pipeline{Exec: exec, Dir: "/repo"}

	results, err := p.Run(context.Background(), fiveGates())
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.Len(t, exec.calls, 1)
}

func TestRun_NoGates(t *testing.T) {
	exec := &fakeExecutor{}
	p := &Pipeline{Exec: exec, Dir: "/repo"}

	results, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// timeoutExecutor simulates a command that exceeded its budget.
type timeoutExecutor struct{}

func (timeoutExecutor) Run(ctx context.Context, dir string, argv []string) (runner.Result, error) {
	return runner.Result{ExitCode: -1}, fmt.Errorf("%s: %w", strings.Join(argv, " "), runner.ErrTimeout)
}

func TestRun_TimeoutIsGateFailure(t *testing.T) {
	p := &Pipeline{Exec: timeoutExecutor{}, Dir: "/repo"}

	results, err := p.Run(context.Background(), fiveGates()[:1])
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.False(t, results[0].Passed)

	var ge *GateError
	require.True(t, errors.As(err, &ge))
	assert.True(t, errors.Is(err, runner.ErrTimeout))
}

type recordingReporter struct {
	started []string
	done    []string
}

func (r *recordingReporter) GateStart(name string) { r.started = append(r.started, name) }
func (r *recordingReporter) GateDone(res Result)   { r.done = append(r.done, res.Gate) }

func TestRun_ReportsProgress(t *testing.T) {
	rep := &recordingReporter{}
	exec := &fakeExecutor{failOn: map[string]string{"pytest": "boom"}}
	p := &Pipeline{Exec: exec, Dir: "/repo", Reporter: rep}

	_, err := p.Run(context.Background(), fiveGates())
	require.Error(t, err)
	assert.Equal(t, []string{"lint", "format-check", "tests"}, rep.started)
	assert.Equal(t, rep.started, rep.done)
}
