package git

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Releaser creates release metadata on the hosting service after a tag has
// been pushed. This is strictly optional: the tag-based flow must work
// without any credential, so callers check Available first and treat
// failures as warnings, never as release failures.
type Releaser interface {
	Available() bool
	CreateRelease(tag string) error
}

// GHReleaser implements Releaser with the gh CLI.
type GHReleaser struct {
	dir string
}

// NewGHReleaser returns a GHReleaser operating on the repository at dir.
func NewGHReleaser(dir string) *GHReleaser {
	return &GHReleaser{dir: dir}
}

// Available reports whether gh is installed and a token is present in the
// environment.
func (r *GHReleaser) Available() bool {
	if _, err := exec.LookPath("gh"); err != nil {
		return false
	}
	return os.Getenv("GH_TOKEN") != "" || os.Getenv("GITHUB_TOKEN") != ""
}

// CreateRelease creates a GitHub release for an already-pushed tag, with
// notes generated from merged PRs and commits.
func (r *GHReleaser) CreateRelease(tag string) error {
	cmd := exec.Command("gh", "release", "create", tag,
		"--title", tag,
		"--generate-notes",
	)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gh release create %s: %s", tag, strings.TrimSpace(string(out)))
	}
	return nil
}
