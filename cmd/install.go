package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install project dependencies",
	Long:  `Install dependencies for every project in the workspace: npm for the frontend, uv for the backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		plan, err := dispatch.Dispatch(dispatch.ActionInstall, inv.pc, dispatch.Options{}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}
		if err := runner.Install(context.Background(), plan.Target); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
