package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanWorkspace(t *testing.T, root string) *Map {
	t.Helper()
	m, err := Scan(root, DefaultMarkers(), ScanOptions{})
	require.NoError(t, err)
	return m
}

func TestResolveFromWorkspaceRoot(t *testing.T) {
	root := makeWorkspace(t)

	pc, err := Resolve(root, root, scanWorkspace(t, root))
	require.NoError(t, err)
	assert.Equal(t, RoleWorkspaceRoot, pc.Role())
	assert.Nil(t, pc.Current)
	assert.Nil(t, pc.Sibling)
}

func TestResolvePairsSiblings(t *testing.T) {
	root := makeWorkspace(t)
	m := scanWorkspace(t, root)

	fe, err := Resolve(filepath.Join(root, "hello-world-fe"), root, m)
	require.NoError(t, err)
	assert.Equal(t, RoleFrontend, fe.Role())
	require.NotNil(t, fe.Sibling)
	assert.Equal(t, RoleBackend, fe.Sibling.Role)
	assert.Equal(t, "hello-world-be", fe.Sibling.Name)

	be, err := Resolve(filepath.Join(root, "hello-world-be"), root, m)
	require.NoError(t, err)
	assert.Equal(t, RoleBackend, be.Role())
	require.NotNil(t, be.Sibling)
	assert.Equal(t, "hello-world-fe", be.Sibling.Name)
}

func TestResolveNestedWorkingDirectory(t *testing.T) {
	root := makeWorkspace(t)
	nested := filepath.Join(root, "hello-world-fe", "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	pc, err := Resolve(nested, root, scanWorkspace(t, root))
	require.NoError(t, err)
	require.NotNil(t, pc.Current)
	assert.Equal(t, "hello-world-fe", pc.Current.Name)
}

func TestResolveOutsideWorkspace(t *testing.T) {
	root := makeWorkspace(t)
	outside := filepath.Join(root, "random")
	require.NoError(t, os.MkdirAll(outside, 0o755))

	_, err := Resolve(outside, root, scanWorkspace(t, root))
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestResolveMissingSiblingIsWarningNotError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "fe", "package.json"), "{}")

	pc, err := Resolve(filepath.Join(root, "fe"), root, scanWorkspace(t, root))
	require.NoError(t, err)
	assert.Nil(t, pc.Sibling)
	assert.NotEmpty(t, pc.Warnings)
}

func TestResolveAmbiguousSiblingIsWarningNotError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "fe", "package.json"), "{}")
	writeFile(t, filepath.Join(root, "api-one", "pyproject.toml"), "")
	writeFile(t, filepath.Join(root, "api-two", "pyproject.toml"), "")

	pc, err := Resolve(filepath.Join(root, "fe"), root, scanWorkspace(t, root))
	require.NoError(t, err)
	assert.Nil(t, pc.Sibling)
	assert.NotEmpty(t, pc.Warnings)
}

func TestContextByRoleHelpers(t *testing.T) {
	root := makeWorkspace(t)
	m := scanWorkspace(t, root)

	// From inside a project both helpers resolve.
	pc, err := Resolve(filepath.Join(root, "hello-world-fe"), root, m)
	require.NoError(t, err)
	require.NotNil(t, pc.Frontend())
	require.NotNil(t, pc.Backend())
	assert.Equal(t, "hello-world-fe", pc.Frontend().Name)
	assert.Equal(t, "hello-world-be", pc.Backend().Name)

	// From the root they fall back to the workspace map.
	pc, err = Resolve(root, root, m)
	require.NoError(t, err)
	require.NotNil(t, pc.Frontend())
	require.NotNil(t, pc.Backend())
}

func TestFindRoot(t *testing.T) {
	root := makeWorkspace(t)
	nested := filepath.Join(root, "hello-world-be", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cases := []struct {
		name string
		cwd  string
	}{
		{"from root", root},
		{"from frontend", filepath.Join(root, "hello-world-fe")},
		{"from backend", filepath.Join(root, "hello-world-be")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindRoot(tc.cwd, DefaultMarkers())
			require.NoError(t, err)
			assert.Equal(t, root, got)
		})
	}
}

func TestFindRootPrefersConfigDir(t *testing.T) {
	root := makeWorkspace(t)
	writeFile(t, filepath.Join(root, ".dh", "config.yaml"), "")

	got, err := FindRoot(filepath.Join(root, "hello-world-fe"), DefaultMarkers())
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
