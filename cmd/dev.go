package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
	"github.com/dskarbrevik/devhand/pkg/utils"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start the dev server for the current project",
	Long: `Start the context-appropriate dev server: the frontend dev server when
run from the frontend project, the backend API server when run from the
backend. Blocked when the environment has failing checks; run
'dh validate' to see why.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		plan, err := dispatch.Dispatch(dispatch.ActionDev, inv.pc, dispatch.Options{}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}
		if err := runner.StartDev(context.Background(), plan); err != nil {
			// The dev server's own exit status propagates unchanged.
			if code := runner.ExitCode(err); code >= 0 {
				utils.GetLogger().Logf("dev server exited with code %d", code)
				os.Exit(code)
			}
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(devCmd)
}
