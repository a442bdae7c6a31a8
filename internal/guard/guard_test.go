package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit implements git.Client in memory for guard tests.
type fakeGit struct {
	branch  string
	dirty   bool
	ahead   int
	behind  int
	fetched int
	pulls   []string

	checkoutErr error
	pullErr     error
}

func (f *fakeGit) RepoRoot() (string, error)      { return "/repo", nil }
func (f *fakeGit) CurrentBranch() (string, error) { return f.branch, nil }
func (f *fakeGit) IsDirty() (bool, error)         { return f.dirty, nil }
func (f *fakeGit) Fetch(remote string) error {
	f.fetched++
	return nil
}
func (f *fakeGit) AheadBehind(remote, branch string) (int, int, error) {
	return f.ahead, f.behind, nil
}
func (f *fakeGit) Checkout(branch string) error {
	if f.checkoutErr != nil {
		return f.checkoutErr
	}
	f.branch = branch
	return nil
}
func (f *fakeGit) CreateBranch(name string) error {
	f.branch = name
	return nil
}
func (f *fakeGit) Pull(remote, branch string) error {
	if f.pullErr != nil {
		return f.pullErr
	}
	f.pulls = append(f.pulls, remote+"/"+branch)
	return nil
}
func (f *fakeGit) Add(paths ...string) error          { return nil }
func (f *fakeGit) Commit(message string) error        { return nil }
func (f *fakeGit) Tag(name, message string) error     { return nil }
func (f *fakeGit) TagExists(name string) (bool, error) { return false, nil }
func (f *fakeGit) LatestTag() (string, error)         { return "", errors.New("no tags") }
func (f *fakeGit) Push(remote, branch string) error   { return nil }
func (f *fakeGit) PushTag(remote, name string) error  { return nil }

func TestAssertClean(t *testing.T) {
	g := New(&fakeGit{dirty: false}, "origin", "main")
	assert.NoError(t, g.AssertClean())

	g = New(&fakeGit{dirty: true}, "origin", "main")
	err := g.AssertClean()
	require.Error(t, err)

	var dirty *DirtyError
	assert.True(t, errors.As(err, &dirty))
}

func TestAssertOnBranch(t *testing.T) {
	g := New(&fakeGit{branch: "main"}, "origin", "main")
	assert.NoError(t, g.AssertOnBranch("main"))

	g = New(&fakeGit{branch: "feature/x"}, "origin", "main")
	err := g.AssertOnBranch("main")
	require.Error(t, err)

	var wrong *WrongBranchError
	require.True(t, errors.As(err, &wrong))
	assert.Equal(t, "main", wrong.Want)
	assert.Equal(t, "feature/x", wrong.Got)
}

func TestEnsureSynced(t *testing.T) {
	fg := &fakeGit{branch: "main"}
	g := New(fg, "origin", "main")
	require.NoError(t, g.EnsureSynced("main"))
	assert.Equal(t, 1, fg.fetched, "EnsureSynced must fetch before comparing")
}

func TestEnsureSynced_Behind(t *testing.T) {
	g := New(&fakeGit{branch: "main", behind: 2}, "origin", "main")
	err := g.EnsureSynced("main")
	require.Error(t, err)

	var oos *OutOfSyncError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, 2, oos.Behind)
	assert.Contains(t, err.Error(), "git pull")
}

func TestEnsureSynced_Diverged(t *testing.T) {
	g := New(&fakeGit{branch: "main", ahead: 1, behind: 3}, "origin", "main")
	err := g.EnsureSynced("main")
	require.Error(t, err)

	var oos *OutOfSyncError
	require.True(t, errors.As(err, &oos))
	assert.Contains(t, err.Error(), "diverged")
}

func TestSwitchAndSync(t *testing.T) {
	fg := &fakeGit{branch: "feature/x"}
	g := New(fg, "origin", "main")
	require.NoError(t, g.SwitchAndSync("main"))
	assert.Equal(t, "main", fg.branch)
	assert.Equal(t, []string{"origin/main"}, fg.pulls)
}

func TestSwitchAndSync_AlreadyOnBranch(t *testing.T) {
	fg := &fakeGit{branch: "main", checkoutErr: errors.New("should not checkout")}
	g := New(fg, "origin", "main")
	require.NoError(t, g.SwitchAndSync("main"))
	assert.Equal(t, []string{"origin/main"}, fg.pulls)
}

func TestSwitchAndSync_PullFails(t *testing.T) {
	fg := &fakeGit{branch: "main", pullErr: errors.New("network down")}
	g := New(fg, "origin", "main")
	err := g.SwitchAndSync("main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}
