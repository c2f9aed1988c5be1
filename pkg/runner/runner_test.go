package runner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskarbrevik/devhand/pkg/workspace"
)

func TestRunSucceeds(t *testing.T) {
	assert.NoError(t, Run(context.Background(), t.TempDir(), "true"))
}

func TestRunPropagatesFailure(t *testing.T) {
	err := Run(context.Background(), t.TempDir(), "false")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRunEmptyCommand(t *testing.T) {
	assert.Error(t, Run(context.Background(), t.TempDir(), "  "))
}

func TestRunRespectsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Run(context.Background(), dir, "touch created-here"))
	_, err := os.Stat(filepath.Join(dir, "created-here"))
	assert.NoError(t, err)
}

func TestExitCodeNonExitError(t *testing.T) {
	assert.Equal(t, -1, ExitCode(context.Canceled))
	assert.Equal(t, -1, ExitCode(nil))
}

func TestExitCodeFromExitError(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 7")
	err := cmd.Run()
	require.Error(t, err)
	assert.Equal(t, 7, ExitCode(err))
}

func makeProject(t *testing.T, root, name string, role workspace.Role, artifacts ...string) *workspace.ProjectDescriptor {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	for _, rel := range artifacts {
		require.NoError(t, os.MkdirAll(filepath.Join(path, rel), 0o755))
	}
	return &workspace.ProjectDescriptor{Path: path, Role: role, Name: name}
}

func TestCleanCurrentProjectOnly(t *testing.T) {
	root := t.TempDir()
	fe := makeProject(t, root, "fe", workspace.RoleFrontend, ".next", "src")
	be := makeProject(t, root, "be", workspace.RoleBackend, "__pycache__")

	pc := &workspace.ProjectContext{Current: fe, Sibling: be, Root: root}
	removed, err := Clean(pc)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(fe.Path, ".next")}, removed)

	// Source dirs and the sibling's artifacts are untouched.
	_, err = os.Stat(filepath.Join(fe.Path, "src"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(be.Path, "__pycache__"))
	assert.NoError(t, err)
}

func TestCleanFromWorkspaceRootCoversBothProjects(t *testing.T) {
	root := t.TempDir()
	fe := makeProject(t, root, "fe", workspace.RoleFrontend, ".next")
	be := makeProject(t, root, "be", workspace.RoleBackend, "__pycache__", "dist")

	pc := &workspace.ProjectContext{Root: root, Workspace: mapOf(fe, be)}
	removed, err := Clean(pc)
	require.NoError(t, err)
	assert.Len(t, removed, 3)
}

func mapOf(projects ...*workspace.ProjectDescriptor) *workspace.Map {
	m := workspace.NewMap()
	for _, p := range projects {
		m.Put(p)
	}
	return m
}

func TestCleanNothingToRemove(t *testing.T) {
	root := t.TempDir()
	fe := makeProject(t, root, "fe", workspace.RoleFrontend)
	pc := &workspace.ProjectContext{Current: fe, Root: root}

	removed, err := Clean(pc)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
