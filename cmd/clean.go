package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
	"github.com/dskarbrevik/devhand/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build artifacts",
	Long: `Remove build artifacts from the current project, or from both projects
when run from the workspace root. Never gated on health: removing
artifacts must stay possible from a broken environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		plan, err := dispatch.Dispatch(dispatch.ActionClean, inv.pc, dispatch.Options{}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}
		removed, err := runner.Clean(plan.Target)
		if err != nil {
			exitWithError(err)
		}
		if len(removed) == 0 {
			ui.Info("nothing to clean")
			return
		}
		for _, path := range removed {
			ui.Success("removed %s", path)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
