// Package config loads shipit's project-local configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/joescharf/shipit/internal/pipeline"
	"github.com/joescharf/shipit/internal/versionfile"
)

// GitHub holds optional hosting-service integration settings.
type GitHub struct {
	// CreateRelease enables creating a GitHub release after the tag is
	// pushed. Needs gh plus a token; failures only warn.
	CreateRelease bool `mapstructure:"create_release"`
}

// Config is the effective configuration for one invocation.
type Config struct {
	DefaultBranch  string               `mapstructure:"default_branch"`
	Remote         string               `mapstructure:"remote"`
	CommandTimeout time.Duration        `mapstructure:"command_timeout"`
	Sources        []versionfile.Source `mapstructure:"sources"`
	Gates          []pipeline.Gate      `mapstructure:"gates"`
	GitHub         GitHub               `mapstructure:"github"`
}

// SetDefaults registers defaults on v. Version sources have no default:
// they are project-specific and must be configured explicitly.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_branch", "main")
	v.SetDefault("remote", "origin")
	v.SetDefault("command_timeout", "10m")
	v.SetDefault("github.create_release", false)
}

// Load unmarshals the effective configuration from v. When no gates are
// configured, the built-in default pipeline is used.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Gates) == 0 {
		cfg.Gates = DefaultGates()
	}
	for i, g := range cfg.Gates {
		if g.Name == "" {
			return nil, fmt.Errorf("gate %d: missing name", i+1)
		}
		if len(g.Command) == 0 {
			return nil, fmt.Errorf("gate %q: missing command", g.Name)
		}
	}
	for i, s := range cfg.Sources {
		if s.Path == "" || s.Pattern == "" {
			return nil, fmt.Errorf("source %d (%s): path and pattern are required", i+1, s.Name)
		}
	}
	return &cfg, nil
}

// DefaultGates returns the built-in quality pipeline, ordered cheap to
// expensive so failures surface fast. The tests gate is deliberately
// non-blocking by default.
func DefaultGates() []pipeline.Gate {
	// The version-sync gate re-invokes this binary, which may be locally
	// built or renamed and not on PATH as "shipit".
	self := "shipit"
	if exe, err := os.Executable(); err == nil {
		self = exe
	}
	return []pipeline.Gate{
		{Name: "lint", Command: []string{"ruff", "check", "."}, Required: true},
		{Name: "format-check", Command: []string{"black", "--check", "."}, Required: true},
		{Name: "tests", Command: []string{"pytest", "-q"}, Required: false},
		{Name: "version-sync", Command: []string{self, "version", "--check"}, Required: true},
		{Name: "build", Command: []string{"python", "-m", "build"}, Required: true},
		{Name: "package-metadata-check", Command: []string{"twine", "check", "dist/*"}, Required: true},
		{Name: "artifact-content-check", Command: []string{"python", "scripts/check_artifact_contents.py"}, Required: true},
	}
}
