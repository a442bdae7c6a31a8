// Package guard asserts repository preconditions before mutating operations.
// Every check re-queries git at the point of use; guard state is never
// cached, since a stale answer here directly causes a wrong mutation.
package guard

import (
	"fmt"

	"github.com/joescharf/shipit/internal/git"
)

// DirtyError means the working tree has uncommitted changes.
type DirtyError struct{}

func (e *DirtyError) Error() string {
	return "working tree is not clean: commit or stash your changes first"
}

// WrongBranchError means an operation requires a specific branch.
type WrongBranchError struct {
	Want string
	Got  string
}

func (e *WrongBranchError) Error() string {
	return fmt.Sprintf("must be on branch %q (currently on %q)", e.Want, e.Got)
}

// OutOfSyncError means local history diverges from or lags the remote.
type OutOfSyncError struct {
	Branch string
	Ahead  int
	Behind int
}

func (e *OutOfSyncError) Error() string {
	switch {
	case e.Ahead > 0 && e.Behind > 0:
		return fmt.Sprintf("branch %q has diverged from its remote (%d ahead, %d behind): rebase or merge first", e.Branch, e.Ahead, e.Behind)
	case e.Behind > 0:
		return fmt.Sprintf("branch %q is %d commit(s) behind its remote: run git pull", e.Branch, e.Behind)
	default:
		return fmt.Sprintf("branch %q is %d commit(s) ahead of its remote: run git push", e.Branch, e.Ahead)
	}
}

// Guard checks and (for SwitchAndSync only) mutates repository state.
type Guard struct {
	git           git.Client
	remote        string
	defaultBranch string
}

// New returns a Guard over the given client.
func New(g git.Client, remote, defaultBranch string) *Guard {
	return &Guard{git: g, remote: remote, defaultBranch: defaultBranch}
}

// DefaultBranch returns the configured integration branch.
func (g *Guard) DefaultBranch() string { return g.defaultBranch }

// AssertClean fails if uncommitted changes exist. Read-only.
func (g *Guard) AssertClean() error {
	dirty, err := g.git.IsDirty()
	if err != nil {
		return fmt.Errorf("check working tree: %w", err)
	}
	if dirty {
		return &DirtyError{}
	}
	return nil
}

// AssertOnBranch fails if the current branch is not name. Read-only.
func (g *Guard) AssertOnBranch(name string) error {
	branch, err := g.git.CurrentBranch()
	if err != nil {
		return fmt.Errorf("resolve current branch: %w", err)
	}
	if branch != name {
		return &WrongBranchError{Want: name, Got: branch}
	}
	return nil
}

// EnsureSynced fetches and fails if the current branch is ahead of or behind
// its remote counterpart in a way that would make a later push fail or
// rewrite history. Read-only apart from the fetch.
func (g *Guard) EnsureSynced(branch string) error {
	if err := g.git.Fetch(g.remote); err != nil {
		return fmt.Errorf("fetch %s: %w", g.remote, err)
	}
	ahead, behind, err := g.git.AheadBehind(g.remote, branch)
	if err != nil {
		return fmt.Errorf("compare with %s/%s: %w", g.remote, branch, err)
	}
	if ahead != 0 || behind != 0 {
		return &OutOfSyncError{Branch: branch, Ahead: ahead, Behind: behind}
	}
	return nil
}

// SwitchAndSync checks out branch and pulls the latest changes. This is the
// only guard operation that mutates the working tree.
func (g *Guard) SwitchAndSync(branch string) error {
	current, err := g.git.CurrentBranch()
	if err != nil {
		return fmt.Errorf("resolve current branch: %w", err)
	}
	if current != branch {
		if err := g.git.Checkout(branch); err != nil {
			return fmt.Errorf("checkout %s: %w", branch, err)
		}
	}
	if err := g.git.Pull(g.remote, branch); err != nil {
		return fmt.Errorf("pull %s/%s: %w", g.remote, branch, err)
	}
	return nil
}
