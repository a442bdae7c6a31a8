// Package semver implements the strict major.minor.patch version grammar
// shipit uses for project versions. Prerelease and build metadata are
// intentionally unsupported: release automation only ever deals in the
// canonical three-part form.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version is an immutable semantic version triple. Bumping produces a new
// value; a Version is never mutated in place.
type Version struct {
	Major int
	Minor int
	Patch int
}

var versionRe = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)

// Parse parses a strict "major.minor.patch" string. Leading zeros, signs,
// prefixes like "v", and any extra components are rejected.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor.patch", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 ordering versions lexicographically on the
// (major, minor, patch) triple.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

// Kind classifies a version increment.
type Kind string

const (
	Patch Kind = "patch"
	Minor Kind = "minor"
	Major Kind = "major"
)

// ParseKind validates a bump kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Patch, Minor, Major:
		return Kind(s), nil
	}
	return "", fmt.Errorf("invalid bump kind %q: must be patch, minor, or major", s)
}

// Bump returns the next version for the given kind.
func (v Version) Bump(kind Kind) (Version, error) {
	switch kind {
	case Patch:
		return Version{v.Major, v.Minor, v.Patch + 1}, nil
	case Minor:
		return Version{v.Major, v.Minor + 1, 0}, nil
	case Major:
		return Version{v.Major + 1, 0, 0}, nil
	}
	return Version{}, fmt.Errorf("invalid bump kind %q", kind)
}
