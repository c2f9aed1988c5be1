package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskarbrevik/devhand/pkg/workspace"
)

func noopRun(pc *workspace.ProjectContext) Result {
	return Result{Name: "noop", Status: StatusPass}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Definition{Name: "dup", Roles: frontendOnly, Modes: bothModes, Run: noopRun},
		Definition{Name: "dup", Roles: backendOnly, Modes: bothModes, Run: noopRun},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistryRejectsAnonymousOrInertChecks(t *testing.T) {
	_, err := NewRegistry(Definition{Roles: frontendOnly, Modes: bothModes, Run: noopRun})
	assert.Error(t, err)

	_, err = NewRegistry(Definition{Name: "no-run", Roles: frontendOnly, Modes: bothModes})
	assert.Error(t, err)
}

func TestSelectPreservesRegistrationOrder(t *testing.T) {
	reg, err := NewRegistry(
		Definition{Name: "first", Roles: frontendOnly, Modes: bothModes, Run: noopRun},
		Definition{Name: "backend-only", Roles: backendOnly, Modes: bothModes, Run: noopRun},
		Definition{Name: "second", Roles: frontendOnly, Modes: bothModes, Run: noopRun},
	)
	require.NoError(t, err)

	selected := reg.Select(workspace.RoleFrontend, ModeStandard)
	require.Len(t, selected, 2)
	assert.Equal(t, "first", selected[0].Name)
	assert.Equal(t, "second", selected[1].Name)
}

func TestStatusWorst(t *testing.T) {
	assert.Equal(t, StatusFail, StatusPass.Worst(StatusFail))
	assert.Equal(t, StatusFail, StatusFail.Worst(StatusPass))
	assert.Equal(t, StatusWarn, StatusPass.Worst(StatusWarn))
	assert.Equal(t, StatusPass, StatusPass.Worst(StatusPass))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pass", StatusPass.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "fail", StatusFail.String())
}
