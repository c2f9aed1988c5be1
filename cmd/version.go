package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the dh version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.Plain("dh version %s", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
