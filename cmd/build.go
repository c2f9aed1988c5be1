package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
	"github.com/dskarbrevik/devhand/pkg/ui"
)

var buildDocker bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build production artifacts for the current project",
	Long: `Build the current project for production: the bundler build for the
frontend, a deployable requirements export for the backend. With
--docker, build a Docker image tagged with the project name instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		plan, err := dispatch.Dispatch(dispatch.ActionBuild, inv.pc, dispatch.Options{Docker: buildDocker}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}
		if err := runner.Build(context.Background(), plan); err != nil {
			exitWithError(err)
		}
		ui.Success("build complete")
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDocker, "docker", false, "Build a Docker image instead of a production bundle")
	rootCmd.AddCommand(buildCmd)
}
