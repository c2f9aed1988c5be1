package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
	"github.com/dskarbrevik/devhand/pkg/utils"
)

var makeCmd = &cobra.Command{
	Use:   "make",
	Short: "Generate project artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var makeRequirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "Generate requirements.txt from the backend lockfile",
	Long:  `Export the backend's dependency lockfile to requirements.txt, the artifact deployment platforms consume.`,
	Run: func(cmd *cobra.Command, args []string) {
		if !utils.CommandExists("uv") {
			exitWithError(fmt.Errorf("uv not installed; install it with: pip install uv"))
		}
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		plan, err := dispatch.Dispatch(dispatch.ActionMakeRequirements, inv.pc, dispatch.Options{}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}
		if err := runner.Requirements(context.Background(), plan.Params["backend"]); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	makeCmd.AddCommand(makeRequirementsCmd)
	rootCmd.AddCommand(makeCmd)
}
