// Package versionfile reads and rewrites the project version declared in
// the repository's version source files. Every configured source must agree
// on the version; a bump rewrites only the version token in each file and
// leaves every other byte untouched.
package versionfile

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/afero"

	"github.com/joescharf/shipit/internal/semver"
)

// Source is one authoritative location of the project version. Pattern is a
// regexp with exactly one capture group around the version token, e.g.
// `(?m)^version\s*=\s*"([^"]+)"` for a packaging manifest.
type Source struct {
	Name    string `mapstructure:"name"`
	Path    string `mapstructure:"path"`
	Pattern string `mapstructure:"pattern"`
}

// MismatchError reports two sources that declare different versions.
type MismatchError struct {
	SourceA  string
	VersionA semver.Version
	SourceB  string
	VersionB semver.Version
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("version mismatch: %s=%s vs %s=%s",
		e.SourceA, e.VersionA, e.SourceB, e.VersionB)
}

// PartialWriteError reports a multi-source write that failed after some
// sources were already rewritten. The working tree is left dirty on purpose;
// there is no rollback.
type PartialWriteError struct {
	Written   []string
	Failed    string
	Remaining []string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial version write: %s failed after %d source(s) were rewritten: %v",
		e.Failed, len(e.Written), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Resolver reads and writes the version across all configured sources.
type Resolver struct {
	fs      afero.Fs
	sources []Source
}

// NewResolver builds a Resolver over fs. Source paths are interpreted
// relative to fs's root.
func NewResolver(fs afero.Fs, sources []Source) *Resolver {
	return &Resolver{fs: fs, sources: sources}
}

// Sources returns the configured sources in order.
func (r *Resolver) Sources() []Source { return r.sources }

// SourcePaths returns the file paths of all sources, in order. Used to stage
// exactly the version-bump changes for commit.
func (r *Resolver) SourcePaths() []string {
	paths := make([]string, len(r.sources))
	for i, s := range r.sources {
		paths[i] = s.Path
	}
	return paths
}

// Current reads every source, parses each declared version strictly, and
// returns the common value. It fails if any source is unreadable, its
// pattern does not match, the token is not a valid version, or any two
// sources disagree. Read-only.
func (r *Resolver) Current() (semver.Version, error) {
	if len(r.sources) == 0 {
		return semver.Version{}, fmt.Errorf("no version sources configured")
	}

	var (
		first     semver.Version
		firstName string
	)
	for i, src := range r.sources {
		raw, err := r.readToken(src)
		if err != nil {
			return semver.Version{}, err
		}
		v, err := semver.Parse(raw)
		if err != nil {
			return semver.Version{}, fmt.Errorf("%s (%s): %w", src.Name, src.Path, err)
		}
		if i == 0 {
			first, firstName = v, src.Name
			continue
		}
		if v != first {
			return semver.Version{}, &MismatchError{
				SourceA: firstName, VersionA: first,
				SourceB: src.Name, VersionB: v,
			}
		}
	}
	return first, nil
}

// Write rewrites the version token in every source, in order. All other file
// content is preserved byte-for-byte. If a source fails after an earlier one
// was already rewritten, Write returns a PartialWriteError; the caller must
// treat the repository as dirty.
func (r *Resolver) Write(v semver.Version) error {
	if len(r.sources) == 0 {
		return fmt.Errorf("no version sources configured")
	}

	var written []string
	for i, src := range r.sources {
		if err := r.writeToken(src, v.String()); err != nil {
			if len(written) > 0 {
				var remaining []string
				for _, rest := range r.sources[i+1:] {
					remaining = append(remaining, rest.Name)
				}
				return &PartialWriteError{
					Written:   written,
					Failed:    src.Name,
					Remaining: remaining,
					Err:       err,
				}
			}
			return fmt.Errorf("write %s (%s): %w", src.Name, src.Path, err)
		}
		written = append(written, src.Name)
	}
	return nil
}

func (r *Resolver) compile(src Source) (*regexp.Regexp, error) {
	re, err := regexp.Compile(src.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid pattern: %w", src.Name, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%s: pattern must have exactly one capture group, has %d", src.Name, re.NumSubexp())
	}
	return re, nil
}

func (r *Resolver) readToken(src Source) (string, error) {
	re, err := r.compile(src)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(r.fs, src.Path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src.Name, err)
	}
	m := re.FindSubmatch(data)
	if m == nil {
		return "", fmt.Errorf("%s: no version found in %s", src.Name, src.Path)
	}
	return string(m[1]), nil
}

func (r *Resolver) writeToken(src Source, version string) error {
	re, err := r.compile(src)
	if err != nil {
		return err
	}
	data, err := afero.ReadFile(r.fs, src.Path)
	if err != nil {
		return err
	}
	loc := re.FindSubmatchIndex(data)
	if loc == nil {
		return fmt.Errorf("no version found in %s", src.Path)
	}

	// Splice the new token into the capture group, leaving everything else
	// untouched.
	start, end := loc[2], loc[3]
	out := make([]byte, 0, len(data)-(end-start)+len(version))
	out = append(out, data[:start]...)
	out = append(out, version...)
	out = append(out, data[end:]...)

	mode := os.FileMode(0644)
	if info, err := r.fs.Stat(src.Path); err == nil {
		mode = info.Mode()
	}
	return afero.WriteFile(r.fs, src.Path, out, mode)
}
