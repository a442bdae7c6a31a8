package release

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/shipit/internal/guard"
	"github.com/joescharf/shipit/internal/pipeline"
	"github.com/joescharf/shipit/internal/runner"
	"github.com/joescharf/shipit/internal/versionfile"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"cancelled", ErrCancelled, ExitOK},
		{"wrapped cancelled", fmt.Errorf("op: %w", ErrCancelled), ExitOK},
		{"dirty", &guard.DirtyError{}, ExitDirty},
		{"wrong branch", &guard.WrongBranchError{Want: "main", Got: "feature/x"}, ExitWrongBranch},
		{"out of sync", &guard.OutOfSyncError{Branch: "main", Behind: 2}, ExitOutOfSync},
		{"mismatch", &versionfile.MismatchError{}, ExitVersion},
		{"partial write", &versionfile.PartialWriteError{Failed: "x", Err: errors.New("io")}, ExitMutation},
		{"gate", &pipeline.GateError{Gate: "lint", Results: []pipeline.Result{{Gate: "lint"}}, Err: errors.New("exit 1")}, ExitGate},
		{"timeout is a gate failure", &pipeline.GateError{Gate: "build", Results: []pipeline.Result{{Gate: "build"}}, Err: runner.ErrTimeout}, ExitGate},
		{"mutation", &MutationError{Step: "push tag", Err: errors.New("rejected")}, ExitMutation},
		{"wrapped dirty", fmt.Errorf("prepare: %w", &guard.DirtyError{}), ExitDirty},
		{"unknown", errors.New("boom"), ExitGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
