package main

import (
	"os"

	"github.com/dskarbrevik/devhand/cmd"
	"github.com/dskarbrevik/devhand/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("error closing log: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		// Subcommands exit with their documented codes themselves; an
		// error here means cobra rejected the arguments.
		logger.LogError(err)
		os.Exit(3)
	}
}
