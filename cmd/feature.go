package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var featureCmd = &cobra.Command{
	Use:   "feature <name>",
	Short: "Start a new feature branch",
	Long: `Create and check out feature/<name> from a clean, up-to-date
default branch. With no argument, prompts for the name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			var err error
			name, err = ui.Prompt("Feature name (e.g. add-auth-command)")
			if err != nil {
				return err
			}
		}
		return featureRun(cmd.Context(), name)
	},
}

func init() {
	rootCmd.AddCommand(featureCmd)
}

func featureRun(ctx context.Context, name string) error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would create and check out feature/%s", name)
		return nil
	}

	if _, err := orch.StartFeature(ctx, name); err != nil {
		return err
	}

	ui.Info("Next steps:")
	ui.Info("  1. Implement your feature")
	ui.Info("  2. Run: shipit patch|minor|major to prepare a release")
	return nil
}
