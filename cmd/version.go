package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the project version resolved from the configured sources",
	Long: `Resolve the project version from every configured version source.

Fails when any source is malformed or when two sources disagree, which
makes 'shipit version --check' usable as the version-sync quality gate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return versionRun()
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Verify source agreement; exit non-zero on mismatch")
	rootCmd.AddCommand(versionCmd)
}

func versionRun() error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}
	if err := requireSources(orch); err != nil {
		return err
	}

	v, err := orch.Resolver.Current()
	if err != nil {
		return err
	}

	if versionCheck {
		ui.Success("Version OK: %s", v)
		return nil
	}
	fmt.Fprintln(ui.Out, v)
	return nil
}
