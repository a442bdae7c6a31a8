// Package git wraps the git CLI for the repository shipit operates on.
package git

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Client defines the git operations the release workflow needs. State
// queries (branch, dirtiness, ahead/behind) always hit git directly; nothing
// is cached between calls.
type Client interface {
	RepoRoot() (string, error)
	CurrentBranch() (string, error)
	IsDirty() (bool, error)
	Fetch(remote string) error
	AheadBehind(remote, branch string) (ahead, behind int, err error)
	Checkout(branch string) error
	CreateBranch(name string) error
	Pull(remote, branch string) error
	Add(paths ...string) error
	Commit(message string) error
	Tag(name, message string) error
	TagExists(name string) (bool, error)
	LatestTag() (string, error)
	Push(remote, branch string) error
	PushTag(remote, name string) error
}

// ProcClient implements Client by shelling out to git.
type ProcClient struct {
	dir string
}

// NewClient returns a ProcClient bound to the repository at dir.
func NewClient(dir string) *ProcClient {
	return &ProcClient{dir: dir}
}

func (c *ProcClient) git(args ...string) (string, error) {
	fullArgs := append([]string{"-C", c.dir}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *ProcClient) RepoRoot() (string, error) {
	return c.git("rev-parse", "--show-toplevel")
}

func (c *ProcClient) CurrentBranch() (string, error) {
	return c.git("rev-parse", "--abbrev-ref", "HEAD")
}

func (c *ProcClient) IsDirty() (bool, error) {
	out, err := c.git("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (c *ProcClient) Fetch(remote string) error {
	_, err := c.git("fetch", remote)
	return err
}

// AheadBehind reports how many commits HEAD is ahead of and behind
// remote/branch. Fetch first for an accurate answer.
func (c *ProcClient) AheadBehind(remote, branch string) (int, int, error) {
	out, err := c.git("rev-list", "--left-right", "--count",
		fmt.Sprintf("HEAD...%s/%s", remote, branch))
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	return ahead, behind, nil
}

func (c *ProcClient) Checkout(branch string) error {
	_, err := c.git("checkout", branch)
	return err
}

func (c *ProcClient) CreateBranch(name string) error {
	_, err := c.git("checkout", "-b", name)
	return err
}

func (c *ProcClient) Pull(remote, branch string) error {
	_, err := c.git("pull", remote, branch)
	return err
}

func (c *ProcClient) Add(paths ...string) error {
	_, err := c.git(append([]string{"add", "--"}, paths...)...)
	return err
}

func (c *ProcClient) Commit(message string) error {
	_, err := c.git("commit", "-m", message)
	return err
}

func (c *ProcClient) Tag(name, message string) error {
	_, err := c.git("tag", "-a", name, "-m", message)
	return err
}

func (c *ProcClient) TagExists(name string) (bool, error) {
	out, err := c.git("tag", "-l", name)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (c *ProcClient) LatestTag() (string, error) {
	return c.git("describe", "--tags", "--abbrev=0")
}

func (c *ProcClient) Push(remote, branch string) error {
	_, err := c.git("push", remote, branch)
	return err
}

func (c *ProcClient) PushTag(remote, name string) error {
	_, err := c.git("push", remote, name)
	return err
}
