package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage shipit configuration.

Running bare 'shipit config' is the same as 'shipit config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .shipit.yaml with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is written by 'shipit config init'. The sources section is
// the one part every project must fill in.
const configTemplate = `# shipit configuration
# See: shipit config show (for effective values and sources)

# Branch that integrates features and is the source of truth for releases
# default_branch: main

# Remote that releases are pushed to
# remote: origin

# Per-gate execution budget; a gate exceeding it counts as failed
# command_timeout: 10m

# Version sources: every file that declares the project version. All
# sources must agree; each pattern needs exactly one capture group around
# the version token.
sources:
  - name: packaging manifest
    path: pyproject.toml
    pattern: '(?m)^version\s*=\s*"([^"]+)"'
  - name: module metadata
    path: src/forge/__init__.py
    pattern: '__version__\s*=\s*"([^"]+)"'

# Quality gates, run in order, stopping at the first required failure.
# Omit this section to use the built-in pipeline.
# gates:
#   - name: lint
#     command: [ruff, check, "."]
#     required: true
#   - name: tests
#     command: [pytest, -q]
#     required: false

# github:
#   # Also create a GitHub release after the tag is pushed (needs gh and
#   # GH_TOKEN or GITHUB_TOKEN; failures only warn)
#   create_release: false
`

func configFilePath() string {
	return filepath.Join(repoRoot, ".shipit.yaml")
}

func configInitRun() error {
	cfgPath := configFilePath()

	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	if dryRun {
		ui.DryRunMsg("Would create config file: %s", cfgPath)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, configTemplate)
		return nil
	}

	if err := os.WriteFile(cfgPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	ui.Info("Edit the sources section to match your project's version files")
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
}

var configKeys = []configKeyInfo{
	{Key: "default_branch", EnvVar: "SHIPIT_DEFAULT_BRANCH"},
	{Key: "remote", EnvVar: "SHIPIT_REMOTE"},
	{Key: "command_timeout", EnvVar: "SHIPIT_COMMAND_TIMEOUT"},
	{Key: "github.create_release", EnvVar: "SHIPIT_GITHUB_CREATE_RELEASE"},
}

func configShowRun() error {
	cfgPath := configFilePath()

	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-24s %v  %s\n", k.Key, val, source)
	}

	fmt.Fprintln(ui.Out)
	sourceCount := 0
	if s, ok := viper.Get("sources").([]any); ok {
		sourceCount = len(s)
	}
	fmt.Fprintf(ui.Out, "  %-24s %d configured\n", "sources", sourceCount)

	gateInfo := "(built-in pipeline)"
	if g, ok := viper.Get("gates").([]any); ok {
		gateInfo = fmt.Sprintf("%d configured", len(g))
	}
	fmt.Fprintf(ui.Out, "  %-24s %s\n", "gates", gateInfo)
	return nil
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}
