package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create and push the release tag (run after the PR is merged)",
	Long: `Publish the version at HEAD of the default branch.

Re-checks every precondition and re-runs the full quality pipeline
against the current HEAD before creating and pushing the annotated
v<version> tag. With github.create_release enabled and a token present,
also creates the GitHub release.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func publishRun(ctx context.Context) error {
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
		ui.DryRunMsg("Would run %d gates, then create and push tag v%s", len(orch.Gates), current)
		return nil
	}

	session, err := orch.CreateRelease(ctx)
	if session != nil {
		printGateSummary(session.Gates)
	}
	if err != nil {
		return err
	}

	ui.Info("CI will now build and publish the release artifacts for v%s", session.To)
	return nil
}
