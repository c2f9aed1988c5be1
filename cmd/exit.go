package cmd

import (
	"errors"
	"os"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/ui"
	"github.com/dskarbrevik/devhand/pkg/utils"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// Process exit codes.
const (
	exitOK       = 0
	exitHealth   = 1 // validation or health gate failure
	exitContext  = 2 // outside workspace, unsupported action for role
	exitInternal = 3 // unexpected internal error
)

// exitCodeFor maps an error to the documented exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var gateErr *dispatch.HealthGateError
	if errors.As(err, &gateErr) {
		return exitHealth
	}
	var unsupported *dispatch.UnsupportedError
	if errors.As(err, &unsupported) {
		return exitContext
	}
	if errors.Is(err, workspace.ErrOutsideWorkspace) || errors.Is(err, workspace.ErrRootNotFound) {
		return exitContext
	}
	return exitInternal
}

// exitWithError prints the error and terminates with its exit code.
func exitWithError(err error) {
	utils.GetLogger().LogError(err)
	ui.Errf("❌ %v\n", err)
	os.Exit(exitCodeFor(err))
}
