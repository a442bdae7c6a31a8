package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestUI(stdin string) (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	u := &UI{Out: out, ErrOut: errOut, In: strings.NewReader(stdin)}
	return u, out, errOut
}

func TestInfoGoesToOut(t *testing.T) {
	u, out, errOut := newTestUI("")
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
	assert.Empty(t, errOut.String())
}

func TestErrorGoesToErrOut(t *testing.T) {
	u, out, errOut := newTestUI("")
	u.Error("boom")
	assert.Contains(t, errOut.String(), "boom")
	assert.Empty(t, out.String())
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := newTestUI("")
	u.VerboseLog("hidden")
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestDryRunMsg(t *testing.T) {
	u, _, errOut := newTestUI("")
	u.DryRunMsg("would tag")
	assert.Empty(t, errOut.String())

	u.DryRun = true
	u.DryRunMsg("would tag")
	assert.Contains(t, errOut.String(), "[DRY-RUN] would tag")
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF
	}
	for _, tc := range cases {
		u, _, _ := newTestUI(tc.input)
		assert.Equal(t, tc.want, u.Confirm("proceed?"), "input %q", tc.input)
	}
}

func TestPrompt(t *testing.T) {
	u, out, _ := newTestUI("add-auth\n")
	val, err := u.Prompt("Feature name")
	assert.NoError(t, err)
	assert.Equal(t, "add-auth", val)
	assert.Contains(t, out.String(), "Feature name")
}

func TestConsecutivePromptsShareReader(t *testing.T) {
	u, _, _ := newTestUI("first\nsecond\n")
	v1, err := u.Prompt("one")
	assert.NoError(t, err)
	v2, err := u.Prompt("two")
	assert.NoError(t, err)
	assert.Equal(t, "first", v1)
	assert.Equal(t, "second", v2)
}

func TestGateColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "pass", GateColor(true))
	assert.Equal(t, "FAIL", GateColor(false))
}

func TestBumpColor_UnknownKindPassesThrough(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "hotfix", BumpColor("hotfix"))
}
