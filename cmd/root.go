package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/shipit/internal/config"
	"github.com/joescharf/shipit/internal/git"
	"github.com/joescharf/shipit/internal/guard"
	"github.com/joescharf/shipit/internal/output"
	"github.com/joescharf/shipit/internal/pipeline"
	"github.com/joescharf/shipit/internal/release"
	"github.com/joescharf/shipit/internal/runner"
	"github.com/joescharf/shipit/internal/versionfile"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui       *output.UI
	repoRoot string

	verbose   bool
	dryRun    bool
	assumeYes bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "shipit",
	Short: "Release workflow automation for git-based projects",
	Long: `shipit automates a project's release lifecycle: feature branches,
semantic version bumps kept in sync across version files, a gated
quality pipeline, and signed releases via annotated git tags.

Run with no arguments for an interactive menu.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return interactiveRun(cmd.Context())
	},
}

// Execute is the main entry point called from main.go. Errors map to one
// exit code per failure category.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		code := release.ExitCode(err)
		if code == release.ExitOK {
			os.Exit(0)
		}
		if ui != nil {
			ui.Error("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().String("config", "", "Config file (default .shipit.yaml at the repo root)")
}

func initConfig() {
	// Resolve the repository root first; config and version sources are
	// relative to it. Outside a repo, fall back to the working directory so
	// help and config commands still run.
	repoRoot = "."
	if root, err := git.NewClient(".").RepoRoot(); err == nil {
		repoRoot = root
	}

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(repoRoot)
		viper.SetConfigName(".shipit")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SHIPIT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun
}

// newOrchestrator wires the effective configuration into a ready-to-run
// orchestrator. Built per command invocation; nothing is cached.
func newOrchestrator() (*release.Orchestrator, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	gc := git.NewClient(repoRoot)
	repoFs := afero.NewBasePathFs(afero.NewOsFs(), repoRoot)

	orch := &release.Orchestrator{
		Guard:    guard.New(gc, cfg.Remote, cfg.DefaultBranch),
		Git:      gc,
		Resolver: versionfile.NewResolver(repoFs, cfg.Sources),
		Pipeline: &pipeline.Pipeline{
			Exec:     runner.New(),
			Dir:      repoRoot,
			Timeout:  cfg.CommandTimeout,
			Reporter: release.GateReporter{UI: ui},
		},
		Releaser:        git.NewGHReleaser(repoRoot),
		UI:              ui,
		Remote:          cfg.Remote,
		DefaultBranch:   cfg.DefaultBranch,
		Gates:           cfg.Gates,
		PublishReleases: cfg.GitHub.CreateRelease,
	}
	if !assumeYes {
		orch.Confirm = ui.Confirm
	}
	return orch, nil
}

// requireSources fails early with a pointer at config init when a command
// needs version sources and none are configured.
func requireSources(orch *release.Orchestrator) error {
	if len(orch.Resolver.Sources()) == 0 {
		return fmt.Errorf("no version sources configured: run 'shipit config init' and list them under 'sources'")
	}
	return nil
}

// printGateSummary renders the gates that ran, in order.
func printGateSummary(results []pipeline.Result) {
	if len(results) == 0 {
		return
	}
	table := ui.Table([]string{"Gate", "Result", "Exit"})
	for _, r := range results {
		_ = table.Append([]string{
			r.Gate,
			output.GateColor(r.Passed),
			fmt.Sprintf("%d", r.ExitCode),
		})
	}
	_ = table.Render()
}
