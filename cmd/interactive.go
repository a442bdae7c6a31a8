package cmd

import (
	"context"
	"fmt"

	"github.com/joescharf/shipit/internal/output"
	"github.com/joescharf/shipit/internal/semver"
)

// interactiveRun handles `shipit` with no subcommand: a guided menu over
// the same operations the subcommands expose.
func interactiveRun(ctx context.Context) error {
	ui.Info("shipit %s release workflow", buildVersion)
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "What would you like to do?")
	fmt.Fprintf(ui.Out, "  1. Start a new feature\n")
	fmt.Fprintf(ui.Out, "  2. Prepare a release (%s/%s/%s)\n",
		output.BumpColor("patch"), output.BumpColor("minor"), output.BumpColor("major"))
	fmt.Fprintf(ui.Out, "  3. Publish (after the PR is merged)\n")
	fmt.Fprintf(ui.Out, "  4. Show status\n")
	fmt.Fprintln(ui.Out)

	choice, err := ui.Prompt("Choose an option [1-4]")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		name, err := ui.Prompt("Feature name (e.g. add-auth-command)")
		if err != nil {
			return err
		}
		return featureRun(ctx, name)

	case "2":
		fmt.Fprintf(ui.Out, "  %s — bug fixes, small improvements (1.0.1 -> 1.0.2)\n", output.BumpColor("patch"))
		fmt.Fprintf(ui.Out, "  %s — new features, backwards compatible (1.0.1 -> 1.1.0)\n", output.BumpColor("minor"))
		fmt.Fprintf(ui.Out, "  %s — breaking changes (1.0.1 -> 2.0.0)\n", output.BumpColor("major"))
		answer, err := ui.Prompt("Version type [patch]")
		if err != nil {
			return err
		}
		if answer == "" {
			answer = "patch"
		}
		kind, err := semver.ParseKind(answer)
		if err != nil {
			return err
		}
		return prepareRun(ctx, kind)

	case "3":
		if !assumeYes && !ui.Confirm("Are you on the default branch with your PR merged?") {
			ui.Warning("Merge your PR first, then run 'shipit publish'")
			return nil
		}
		return publishRun(ctx)

	case "4":
		return statusRun()

	default:
		return fmt.Errorf("unknown option %q", choice)
	}
}
