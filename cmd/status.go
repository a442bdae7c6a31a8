package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/shipit/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show release readiness of the repository",
	Long: `Show the repository state the release workflow cares about:
current branch, working-tree cleanliness, sync with the remote, the
resolved project version, and the latest tag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun() error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	branch, err := orch.Git.CurrentBranch()
	if err != nil {
		return err
	}
	dirty, err := orch.Git.IsDirty()
	if err != nil {
		return err
	}

	clean := output.Green("clean")
	if dirty {
		clean = output.Red("dirty")
	}

	version := "(unresolved)"
	if len(orch.Resolver.Sources()) > 0 {
		if v, err := orch.Resolver.Current(); err == nil {
			version = output.Green(v.String())
		} else {
			version = output.Red(err.Error())
		}
	}

	latestTag := "(none)"
	if tag, err := orch.Git.LatestTag(); err == nil {
		latestTag = output.Cyan(tag)
	}

	sync := "(remote not checked)"
	if err := orch.Git.Fetch(orch.Remote); err == nil {
		if ahead, behind, err := orch.Git.AheadBehind(orch.Remote, branch); err == nil {
			switch {
			case ahead == 0 && behind == 0:
				sync = output.Green("in sync")
			default:
				sync = output.Yellow(fmt.Sprintf("%d ahead, %d behind", ahead, behind))
			}
		}
	}

	table := ui.Table([]string{"Field", "Value"})
	_ = table.Append([]string{"Branch", output.Cyan(branch)})
	_ = table.Append([]string{"Working tree", clean})
	_ = table.Append([]string{"Remote sync", sync})
	_ = table.Append([]string{"Version", version})
	_ = table.Append([]string{"Latest tag", latestTag})
	return table.Render()
}
