package cmd

import (
	"context"
	"os"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/config"
	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/health"
	"github.com/dskarbrevik/devhand/pkg/utils"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// invocation bundles the state every command needs: the resolved context
// and the workspace configuration. It is rebuilt fresh on every run; the
// engine carries no state between invocations.
type invocation struct {
	pc  *workspace.ProjectContext
	cfg *config.Config
}

// resolveInvocation performs the scan → resolve sequence for the current
// working directory. Root discovery uses the default markers; the scan
// proper uses the (possibly customized) markers from config.yaml.
func resolveInvocation() (*invocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := workspace.FindRoot(cwd, workspace.DefaultMarkers())
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	m, err := workspace.Scan(root, cfg.Markers, workspace.ScanOptions{})
	if err != nil {
		return nil, err
	}
	pc, err := workspace.Resolve(cwd, root, m)
	if err != nil {
		return nil, err
	}
	cfg.HydrateSecrets(pc)
	utils.GetLogger().Logf("resolved context: role=%s root=%s", pc.Role(), root)
	return &invocation{pc: pc, cfg: cfg}, nil
}

// healthFunc returns the lazy evaluator the dispatcher calls for gated
// actions.
func (inv *invocation) healthFunc() dispatch.HealthFunc {
	return func(mode checks.Mode) (*health.Report, error) {
		reg, err := checks.DefaultRegistry(inv.cfg)
		if err != nil {
			return nil, err
		}
		report := health.NewEvaluator(reg).Evaluate(context.Background(), inv.pc, mode)
		return report, nil
	}
}
