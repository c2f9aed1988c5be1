// Package cmd wires the dh command tree. Commands resolve the workspace
// context, hand the request to the dispatcher, and pass the resulting plan
// to an executor; the decision logic lives in the pkg packages.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is the CLI version, overridable at link time.
var Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:     "dh",
	Short:   "CLI tool to improve devX for webapps",
	Version: Version,
	Long: `dh is a workspace-aware helper for paired frontend/backend webapp
projects. It detects which project you are in, validates the local
environment, and runs context-appropriate dev, build, and database
commands.

Common commands:
  setup     - one-time interactive environment setup
  validate  - check environment health (add --deploy for deploy readiness)
  dev       - start the dev server for the current project
  build     - production build (add --docker for an image)
  db        - backend database operations (migrate, sync-users)
  clean     - remove build artifacts`,
}

// Execute runs the root command. Commands exit the process directly with
// the documented exit codes; an error returned here is an argument-level
// problem surfaced by cobra.
func Execute() error {
	return rootCmd.Execute()
}
