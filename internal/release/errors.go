package release

import (
	"errors"
	"fmt"

	"github.com/joescharf/shipit/internal/guard"
	"github.com/joescharf/shipit/internal/pipeline"
	"github.com/joescharf/shipit/internal/versionfile"
)

// Exit codes, one per failure category, so CI scripts can tell "nothing to
// do" apart from "broke" and react to the specific failure.
const (
	ExitOK          = 0
	ExitGeneric     = 1
	ExitDirty       = 2
	ExitWrongBranch = 3
	ExitOutOfSync   = 4
	ExitVersion     = 5
	ExitGate        = 6
	ExitMutation    = 7
)

// ErrCancelled means the user declined a confirmation prompt. It maps to
// exit 0: nothing happened, nothing broke.
var ErrCancelled = errors.New("cancelled by user")

// MutationError wraps a failure while mutating the repository (version file
// writes, commit, tag, push). These are the most serious failures since they
// can leave inconsistent state; there is no automatic rollback, the working
// tree is left dirty and detectable instead.
type MutationError struct {
	Step string
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// ExitCode maps an error to its category's exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrCancelled) {
		return ExitOK
	}

	var (
		dirty       *guard.DirtyError
		wrongBranch *guard.WrongBranchError
		outOfSync   *guard.OutOfSyncError
		mismatch    *versionfile.MismatchError
		partial     *versionfile.PartialWriteError
		gateErr     *pipeline.GateError
		mutation    *MutationError
	)
	switch {
	case errors.As(err, &dirty):
		return ExitDirty
	case errors.As(err, &wrongBranch):
		return ExitWrongBranch
	case errors.As(err, &outOfSync):
		return ExitOutOfSync
	case errors.As(err, &mismatch):
		return ExitVersion
	case errors.As(err, &partial), errors.As(err, &mutation):
		return ExitMutation
	case errors.As(err, &gateErr):
		return ExitGate
	}
	return ExitGeneric
}
