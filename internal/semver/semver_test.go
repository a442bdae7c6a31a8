package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.0.2")
	require.NoError(t, err)
	assert.Equal(t, Version{1, 0, 2}, v)
	assert.Equal(t, "1.0.2", v.String())
}

func TestParse_Zero(t *testing.T) {
	v, err := Parse("0.0.0")
	require.NoError(t, err)
	assert.Equal(t, Version{0, 0, 0}, v)
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "1", "1.2", "1.2.3.4", "v1.2.3", "1.02.3", "-1.2.3", "1.2.x", "1.2.3-rc1", " 1.2.3"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestBump(t *testing.T) {
	base := Version{1, 0, 2}

	next, err := base.Bump(Patch)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 0, 3}, next)

	next, err = base.Bump(Minor)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 1, 0}, next)

	next, err = base.Bump(Major)
	require.NoError(t, err)
	assert.Equal(t, Version{2, 0, 0}, next)

	// base is untouched
	assert.Equal(t, Version{1, 0, 2}, base)
}

func TestBump_InvalidKind(t *testing.T) {
	_, err := Version{1, 0, 0}.Bump(Kind("hotfix"))
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"patch", "minor", "major"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}
	_, err := ParseKind("PATCH")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Version{1, 2, 3}.Compare(Version{1, 2, 3}))
	assert.Equal(t, -1, Version{1, 2, 3}.Compare(Version{1, 2, 4}))
	assert.Equal(t, 1, Version{2, 0, 0}.Compare(Version{1, 9, 9}))
	assert.Equal(t, -1, Version{1, 1, 0}.Compare(Version{1, 2, 0}))
}
