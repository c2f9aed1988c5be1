package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/ui"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// StartDev launches the dev server described by a dev plan, attaching a
// pseudo-terminal when possible. The spawned process's exit status is
// returned to the caller unchanged.
func StartDev(ctx context.Context, plan *dispatch.ActionPlan) error {
	target := plan.Target.Current
	ui.Info("starting %s dev server on port %s", target.Role, plan.Params["port"])
	return RunInteractive(ctx, target.Path, plan.Params["command"])
}

// Build produces the artifact a build plan asks for: a production build or
// a Docker image tagged with the project name.
func Build(ctx context.Context, plan *dispatch.ActionPlan) error {
	target := plan.Target.Current
	switch plan.Params["target"] {
	case "docker":
		tag := target.Name
		ui.Info("building Docker image %s", tag)
		return Run(ctx, target.Path, "docker build -t "+tag+" .")
	default:
		if target.Role == workspace.RoleBackend {
			return Requirements(ctx, target.Path)
		}
		ui.Info("building production bundle for %s", target.Name)
		return Run(ctx, target.Path, "npm run build")
	}
}

// Install installs dependencies for every project visible from the
// context: npm for the frontend, uv for the backend.
func Install(ctx context.Context, pc *workspace.ProjectContext) error {
	installed := false
	if fe := pc.Frontend(); fe != nil {
		ui.Info("installing frontend dependencies in %s", fe.Name)
		if err := Run(ctx, fe.Path, "npm install"); err != nil {
			return fmt.Errorf("installing frontend dependencies: %w", err)
		}
		ui.Success("frontend dependencies installed")
		installed = true
	}
	if be := pc.Backend(); be != nil {
		ui.Info("installing backend dependencies in %s", be.Name)
		if err := Run(ctx, be.Path, "uv sync --dev"); err != nil {
			return fmt.Errorf("installing backend dependencies: %w", err)
		}
		ui.Success("backend dependencies installed")
		installed = true
	}
	if !installed {
		return fmt.Errorf("no projects found to install")
	}
	return nil
}

// Requirements exports the backend lockfile to requirements.txt, the
// artifact platform deploys consume.
func Requirements(ctx context.Context, backendPath string) error {
	ui.Info("generating requirements.txt")
	if err := Run(ctx, backendPath, "uv export --no-dev --no-hashes --output-file requirements.txt"); err != nil {
		return fmt.Errorf("generating requirements.txt: %w", err)
	}
	ui.Success("requirements.txt generated")
	return nil
}

// artifactDirs lists the removable build outputs per role. Dependency
// directories (node_modules, .venv) stay; clean removes artifacts, not
// installs.
var artifactDirs = map[workspace.Role][]string{
	workspace.RoleFrontend: {".next", "dist", filepath.Join("node_modules", ".cache")},
	workspace.RoleBackend:  {"__pycache__", ".pytest_cache", "dist", "build"},
}

// Clean removes build artifacts from every project visible from the
// context and returns the paths it removed. Clean never fails on a missing
// artifact; recovery from a broken environment is its whole point.
func Clean(pc *workspace.ProjectContext) ([]string, error) {
	var targets []*workspace.ProjectDescriptor
	if pc.Current != nil {
		targets = append(targets, pc.Current)
	} else {
		if fe := pc.Frontend(); fe != nil {
			targets = append(targets, fe)
		}
		if be := pc.Backend(); be != nil {
			targets = append(targets, be)
		}
	}

	var removed []string
	for _, project := range targets {
		for _, rel := range artifactDirs[project.Role] {
			path := filepath.Join(project.Path, rel)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				return removed, fmt.Errorf("removing %s: %w", path, err)
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}
