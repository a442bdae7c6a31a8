// Package release implements the release workflow state machine: starting
// feature branches, preparing version bumps behind the quality pipeline, and
// publishing tagged releases. All guard checks and version computation run
// before the pipeline; all repository mutations run only after the pipeline
// fully passes.
package release

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/shipit/internal/git"
	"github.com/joescharf/shipit/internal/guard"
	"github.com/joescharf/shipit/internal/output"
	"github.com/joescharf/shipit/internal/pipeline"
	"github.com/joescharf/shipit/internal/semver"
	"github.com/joescharf/shipit/internal/versionfile"
)

// Operation names one of the supported workflow transitions.
type Operation string

const (
	OpStartFeature   Operation = "start-feature"
	OpPrepareRelease Operation = "prepare-release"
	OpCreateRelease  Operation = "create-release"
	OpFullRelease    Operation = "full-release"
)

// Session captures the outcome of one invocation. It lives only for the
// duration of the command and is never persisted.
type Session struct {
	ID        string
	Operation Operation
	From      semver.Version
	To        semver.Version
	Gates     []pipeline.Result
}

func newSession(op Operation) *Session {
	return &Session{ID: ulid.Make().String(), Operation: op}
}

// Orchestrator sequences guards, version resolution, the gate pipeline, and
// git mutations. It holds no repository state of its own: every check
// re-queries git at the point of use.
type Orchestrator struct {
	Guard    *guard.Guard
	Git      git.Client
	Resolver *versionfile.Resolver
	Pipeline *pipeline.Pipeline
	Releaser git.Releaser
	UI       *output.UI

	Remote          string
	DefaultBranch   string
	Gates           []pipeline.Gate
	PublishReleases bool

	// Confirm gates irreversible steps. Nil means assume yes.
	Confirm func(format string, a ...any) bool
}

func (o *Orchestrator) confirm(format string, a ...any) bool {
	if o.Confirm == nil {
		return true
	}
	return o.Confirm(format, a...)
}

// StartFeature creates branch feature/<name> from a clean, synced default
// branch and checks it out. Any failing guard aborts before the branch is
// created.
func (o *Orchestrator) StartFeature(ctx context.Context, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("feature name is required")
	}
	if strings.ContainsAny(name, " \t~^:?*[\\") {
		return nil, fmt.Errorf("invalid feature name %q", name)
	}

	s := newSession(OpStartFeature)
	o.UI.VerboseLog("session %s: %s %s", s.ID, s.Operation, name)

	if err := o.Guard.AssertClean(); err != nil {
		return nil, err
	}
	o.UI.Info("Switching to %s and pulling latest changes", o.DefaultBranch)
	if err := o.Guard.SwitchAndSync(o.DefaultBranch); err != nil {
		return nil, err
	}

	branch := "feature/" + name
	if err := o.Git.CreateBranch(branch); err != nil {
		return nil, fmt.Errorf("create branch %s: %w", branch, err)
	}

	o.UI.Success("Feature branch %s created and checked out", output.Cyan(branch))
	return s, nil
}

// PrepareRelease computes the next version for kind, runs the full gate
// pipeline, and only then rewrites the version sources and commits the bump.
// No version file is touched if any required gate fails. Re-running after a
// success starts from the new current version, so repeated invocations
// advance the version monotonically.
func (o *Orchestrator) PrepareRelease(ctx context.Context, kind semver.Kind) (*Session, error) {
	s := newSession(OpPrepareRelease)
	o.UI.VerboseLog("session %s: %s %s", s.ID, s.Operation, kind)

	// The bump commit must contain only the version-file changes, so the
	// tree has to start clean.
	if err := o.Guard.AssertClean(); err != nil {
		return nil, err
	}

	current, err := o.Resolver.Current()
	if err != nil {
		return nil, err
	}
	next, err := current.Bump(kind)
	if err != nil {
		return nil, err
	}
	s.From, s.To = current, next

	o.UI.Info("Preparing %s release: %s -> %s", output.BumpColor(string(kind)), current, output.Green(next.String()))
	if !o.confirm("Update version from %s to %s?", current, next) {
		o.UI.Warning("Release preparation cancelled")
		return s, ErrCancelled
	}

	results, err := o.Pipeline.Run(ctx, o.Gates)
	s.Gates = results
	if err != nil {
		return s, err
	}

	if err := o.Resolver.Write(next); err != nil {
		var partial *versionfile.PartialWriteError
		if errors.As(err, &partial) {
			return s, err
		}
		return s, &MutationError{Step: "write version files", Err: err}
	}

	if err := o.Git.Add(o.Resolver.SourcePaths()...); err != nil {
		return s, &MutationError{Step: "stage version files", Err: err}
	}
	msg := fmt.Sprintf("bump: version %s -> %s", current, next)
	if err := o.Git.Commit(msg); err != nil {
		return s, &MutationError{Step: "commit version bump", Err: err}
	}

	o.UI.Success("Release prepared for version %s", output.Green(next.String()))
	return s, nil
}

// CreateRelease publishes the version at HEAD of the default branch: it
// re-checks every precondition, re-runs the full pipeline against the
// now-current HEAD, then creates and pushes the annotated tag. The tag push
// is the first externally visible effect.
func (o *Orchestrator) CreateRelease(ctx context.Context) (*Session, error) {
	s := newSession(OpCreateRelease)
	o.UI.VerboseLog("session %s: %s", s.ID, s.Operation)

	if err := o.Guard.AssertOnBranch(o.DefaultBranch); err != nil {
		return nil, err
	}
	if err := o.Guard.AssertClean(); err != nil {
		return nil, err
	}
	o.UI.Info("Pulling latest %s", o.DefaultBranch)
	if err := o.Guard.SwitchAndSync(o.DefaultBranch); err != nil {
		return nil, err
	}
	// The pull repairs "behind" but not "ahead": tagging a commit the remote
	// has never seen would publish history that is not on the default branch.
	if err := o.Guard.EnsureSynced(o.DefaultBranch); err != nil {
		return nil, err
	}

	version, err := o.Resolver.Current()
	if err != nil {
		return nil, err
	}
	s.From, s.To = version, version

	tag := "v" + version.String()
	exists, err := o.Git.TagExists(tag)
	if err != nil {
		return nil, fmt.Errorf("check tag %s: %w", tag, err)
	}
	if exists {
		return nil, fmt.Errorf("tag %s already exists", tag)
	}

	// Never trust a pipeline pass from a different commit.
	results, err := o.Pipeline.Run(ctx, o.Gates)
	s.Gates = results
	if err != nil {
		return s, err
	}

	o.UI.Info("Creating tag %s", output.Cyan(tag))
	if err := o.Git.Tag(tag, "Release "+tag); err != nil {
		return s, &MutationError{Step: "create tag " + tag, Err: err}
	}
	if err := o.Git.PushTag(o.Remote, tag); err != nil {
		return s, &MutationError{Step: "push tag " + tag, Err: err}
	}
	o.UI.Success("Release %s created", output.Green(tag))

	o.publishReleaseMetadata(tag)
	return s, nil
}

// publishReleaseMetadata creates release metadata on the hosting service.
// This is best-effort by contract: no credential, no gh, or an API failure
// degrades to a warning and never fails the release.
func (o *Orchestrator) publishReleaseMetadata(tag string) {
	if !o.PublishReleases {
		return
	}
	if o.Releaser == nil || !o.Releaser.Available() {
		o.UI.Warning("Skipping GitHub release: gh or token not available")
		return
	}
	if err := o.Releaser.CreateRelease(tag); err != nil {
		o.UI.Warning("GitHub release failed (tag %s is already pushed): %v", tag, err)
		return
	}
	o.UI.Success("GitHub release %s created", tag)
}

// FullRelease runs PrepareRelease and CreateRelease back to back, pushing
// the default branch in between. It is a literal composition of the two
// transitions, not a separate mechanism, so the fast path cannot drift from
// the safe one.
func (o *Orchestrator) FullRelease(ctx context.Context, kind semver.Kind) (*Session, error) {
	if err := o.Guard.AssertOnBranch(o.DefaultBranch); err != nil {
		return nil, err
	}

	o.UI.Warning("Full release: this skips the PR review checkpoint")
	if !o.confirm("Proceed with an immediate %s release?", kind) {
		o.UI.Warning("Full release cancelled")
		return nil, ErrCancelled
	}

	prepared, err := o.PrepareRelease(ctx, kind)
	if err != nil {
		return prepared, err
	}

	o.UI.Info("Pushing %s", o.DefaultBranch)
	if err := o.Git.Push(o.Remote, o.DefaultBranch); err != nil {
		return prepared, &MutationError{Step: "push " + o.DefaultBranch, Err: err}
	}

	created, err := o.CreateRelease(ctx)

	// The summary must cover everything that ran, both pipeline passes.
	s := newSession(OpFullRelease)
	s.From, s.To = prepared.From, prepared.To
	s.Gates = append(s.Gates, prepared.Gates...)
	if created != nil {
		s.Gates = append(s.Gates, created.Gates...)
	}
	if err != nil {
		return s, err
	}
	return s, nil
}
