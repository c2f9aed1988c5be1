package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/config"
	"github.com/dskarbrevik/devhand/pkg/health"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// End-to-end scenarios over a real on-disk workspace: scan → resolve →
// dispatch, with health evaluated by the real evaluator over a scenario
// registry.

func scenarioWorkspace(t *testing.T) (string, *workspace.Map) {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("hello-world-fe/package.json", `{"name":"hello-world-fe"}`)
	write("hello-world-fe/next.config.ts", "")
	write("hello-world-be/pyproject.toml", "[project]\nname = \"hello-world-be\"\n")
	write("hello-world-be/main.py", "")

	m, err := workspace.Scan(root, workspace.DefaultMarkers(), workspace.ScanOptions{})
	require.NoError(t, err)
	return root, m
}

// scenarioHealth runs a manifest-presence battery through the real
// evaluator so the gate sees genuine filesystem state.
func scenarioHealth(t *testing.T, pc *workspace.ProjectContext) HealthFunc {
	t.Helper()
	reg, err := checks.NewRegistry(
		checks.Definition{
			Name:  "frontend-manifest",
			Roles: []workspace.Role{workspace.RoleFrontend},
			Modes: []checks.Mode{checks.ModeStandard, checks.ModeDeploy},
			Run: func(pc *workspace.ProjectContext) checks.Result {
				if _, err := os.Stat(filepath.Join(pc.Current.Path, "package.json")); err != nil {
					return checks.Result{Name: "frontend-manifest", Status: checks.StatusFail, Message: "package.json not found"}
				}
				return checks.Result{Name: "frontend-manifest", Status: checks.StatusPass, Message: "package.json exists"}
			},
		},
		checks.Definition{
			Name:  "backend-manifest",
			Roles: []workspace.Role{workspace.RoleBackend},
			Modes: []checks.Mode{checks.ModeStandard, checks.ModeDeploy},
			Run: func(pc *workspace.ProjectContext) checks.Result {
				if _, err := os.Stat(filepath.Join(pc.Current.Path, "pyproject.toml")); err != nil {
					return checks.Result{Name: "backend-manifest", Status: checks.StatusFail, Message: "pyproject.toml not found"}
				}
				return checks.Result{Name: "backend-manifest", Status: checks.StatusPass, Message: "pyproject.toml exists"}
			},
		},
	)
	require.NoError(t, err)
	eval := health.NewEvaluator(reg)
	return func(mode checks.Mode) (*health.Report, error) {
		return eval.Evaluate(context.Background(), pc, mode), nil
	}
}

func TestScenarioDevFromFrontend(t *testing.T) {
	root, m := scenarioWorkspace(t)
	pc, err := workspace.Resolve(filepath.Join(root, "hello-world-fe"), root, m)
	require.NoError(t, err)
	assert.Equal(t, workspace.RoleFrontend, pc.Role())
	require.NotNil(t, pc.Sibling)
	assert.Equal(t, "hello-world-be", pc.Sibling.Name)

	plan, err := Dispatch(ActionDev, pc, Options{}, scenarioHealth(t, pc))
	require.NoError(t, err)
	assert.Equal(t, ActionDev, plan.Action)
	assert.Equal(t, filepath.Join(root, "hello-world-fe"), plan.Target.Current.Path)
}

func TestScenarioDBMigrateFromFrontendRejected(t *testing.T) {
	root, m := scenarioWorkspace(t)
	pc, err := workspace.Resolve(filepath.Join(root, "hello-world-fe"), root, m)
	require.NoError(t, err)

	_, err = Dispatch(ActionDBMigrate, pc, Options{}, scenarioHealth(t, pc))
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, workspace.RoleFrontend, unsupported.Role)
}

func TestScenarioBrokenBackendBlocksDevButNotValidate(t *testing.T) {
	root, m := scenarioWorkspace(t)
	// Break the backend: remove its dependency manifest after scanning.
	require.NoError(t, os.Remove(filepath.Join(root, "hello-world-be", "pyproject.toml")))

	pc, err := workspace.Resolve(filepath.Join(root, "hello-world-be"), root, m)
	require.NoError(t, err)
	eval := scenarioHealth(t, pc)

	// dev is blocked by the failing dependency check.
	_, err = Dispatch(ActionDev, pc, Options{}, eval)
	var gateErr *HealthGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, checks.StatusFail, gateErr.Status)

	// validate still dispatches; it reports instead of blocking.
	plan, err := Dispatch(ActionValidate, pc, Options{}, eval)
	require.NoError(t, err)
	report, err := eval(checks.Mode(plan.Params["mode"]))
	require.NoError(t, err)
	assert.Equal(t, checks.StatusFail, report.Overall)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "backend-manifest", report.Results[0].Name)
}

func TestScenarioValidateIdempotent(t *testing.T) {
	root, m := scenarioWorkspace(t)
	pc, err := workspace.Resolve(filepath.Join(root, "hello-world-fe"), root, m)
	require.NoError(t, err)
	eval := scenarioHealth(t, pc)

	first, err := eval(checks.ModeStandard)
	require.NoError(t, err)
	second, err := eval(checks.ModeStandard)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScenarioConfiguredMarkersChangeClassification(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "svc", "Cargo.toml"), []byte(""), 0o644))

	cfg := config.Default()
	cfg.Markers = workspace.MarkerConfig{Backend: []string{"Cargo.toml"}, Frontend: []string{"package.json"}}

	m, err := workspace.Scan(root, cfg.Markers, workspace.ScanOptions{})
	require.NoError(t, err)
	pc, err := workspace.Resolve(filepath.Join(root, "svc"), root, m)
	require.NoError(t, err)
	assert.Equal(t, workspace.RoleBackend, pc.Role())
}
