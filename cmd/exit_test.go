package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"health gate", &dispatch.HealthGateError{
			Action: dispatch.ActionDev, Gate: dispatch.GateWarnOrBetter, Status: checks.StatusFail,
		}, exitHealth},
		{"unsupported action", &dispatch.UnsupportedError{
			Action: dispatch.ActionDBMigrate, Role: workspace.RoleFrontend,
		}, exitContext},
		{"outside workspace", fmt.Errorf("resolving: %w", workspace.ErrOutsideWorkspace), exitContext},
		{"root not found", fmt.Errorf("scan: %w", workspace.ErrRootNotFound), exitContext},
		{"unexpected", errors.New("disk on fire"), exitInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeFor(tc.err))
		})
	}
}

func TestCommandTreeWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"setup", "validate", "dev", "build", "db", "clean", "install", "make", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestValidateHasDeployFlag(t *testing.T) {
	flag := validateCmd.Flags().Lookup("deploy")
	assert.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestBuildHasDockerFlag(t *testing.T) {
	flag := buildCmd.Flags().Lookup("docker")
	assert.NotNil(t, flag)
}

func TestDBSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range dbCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["sync-users"])
}
