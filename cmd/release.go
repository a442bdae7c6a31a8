package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/shipit/internal/semver"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Prepare a patch release (bug fixes)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return prepareRun(cmd.Context(), semver.Patch)
	},
}

var minorCmd = &cobra.Command{
	Use:   "minor",
	Short: "Prepare a minor release (new features, backwards compatible)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return prepareRun(cmd.Context(), semver.Minor)
	},
}

var majorCmd = &cobra.Command{
	Use:   "major",
	Short: "Prepare a major release (breaking changes)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return prepareRun(cmd.Context(), semver.Major)
	},
}

var fullReleaseCmd = &cobra.Command{
	Use:   "full-release <patch|minor|major>",
	Short: "Prepare and publish in one step (emergency path, skips PR review)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := semver.ParseKind(args[0])
		if err != nil {
			return err
		}
		return fullReleaseRun(cmd.Context(), kind)
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(minorCmd)
	rootCmd.AddCommand(majorCmd)
	rootCmd.AddCommand(fullReleaseCmd)
}

func prepareRun(ctx context.Context, kind semver.Kind) error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}
	if err := requireSources(orch); err != nil {
		return err
	}

	if dryRun {
		current, err := orch.Resolver.Current()
		if err != nil {
			return err
		}
		next, err := current.Bump(kind)
		if err != nil {
			return err
		}
		ui.DryRunMsg("Would bump version %s -> %s, run %d gates, and commit", current, next, len(orch.Gates))
		return nil
	}

	session, err := orch.PrepareRelease(ctx, kind)
	if session != nil {
		printGateSummary(session.Gates)
	}
	if err != nil {
		return err
	}

	ui.Info("Next steps:")
	ui.Info("  1. Push your branch and create a PR")
	ui.Info("  2. After the PR is merged, run: shipit publish")
	return nil
}

func fullReleaseRun(ctx context.Context, kind semver.Kind) error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}
	if err := requireSources(orch); err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would prepare a %s release, push, and publish immediately", kind)
		return nil
	}

	session, err := orch.FullRelease(ctx, kind)
	if session != nil {
		printGateSummary(session.Gates)
	}
	return err
}
