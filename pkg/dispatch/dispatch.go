// Package dispatch decides whether a requested action is legal for the
// resolved context, gates it on environment health when required, and
// emits the concrete plan an external executor carries out.
package dispatch

import (
	"fmt"
	"strconv"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/health"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// Action names a dispatchable CLI action.
type Action string

const (
	ActionSetup            Action = "setup"
	ActionValidate         Action = "validate"
	ActionDev              Action = "dev"
	ActionBuild            Action = "build"
	ActionDBMigrate        Action = "db-migrate"
	ActionDBSyncUsers      Action = "db-sync-users"
	ActionClean            Action = "clean"
	ActionInstall          Action = "install"
	ActionMakeRequirements Action = "make-requirements"
)

// Gate is the minimum overall health status an action requires.
type Gate int

const (
	GateNone Gate = iota
	GateWarnOrBetter
	GatePassOnly
)

func (g Gate) String() string {
	switch g {
	case GateWarnOrBetter:
		return "warn-or-better"
	case GatePassOnly:
		return "pass-only"
	default:
		return "none"
	}
}

// met reports whether an overall status satisfies the gate.
func (g Gate) met(status checks.Status) bool {
	switch g {
	case GateWarnOrBetter:
		return status != checks.StatusFail
	case GatePassOnly:
		return status == checks.StatusPass
	default:
		return true
	}
}

// Options is the enumerated per-action flag set.
type Options struct {
	Deploy bool // validate --deploy
	Docker bool // build --docker
}

// ActionPlan is the dispatcher's output: what to run, where, and with
// which parameters. Plans are consumed immediately and never stored.
type ActionPlan struct {
	Action Action
	Target *workspace.ProjectContext
	Params map[string]string
	Gate   Gate
}

// HealthFunc evaluates environment health on demand. The dispatcher calls
// it lazily, only for gated actions.
type HealthFunc func(mode checks.Mode) (*health.Report, error)

// UnsupportedError reports an action requested from a context whose role
// cannot run it.
type UnsupportedError struct {
	Action Action
	Role   workspace.Role
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("action %q is not supported here: %s (current role: %s)", e.Action, e.Reason, e.Role)
}

// HealthGateError reports a gated action blocked by the health report.
type HealthGateError struct {
	Action Action
	Gate   Gate
	Status checks.Status
	Report *health.Report
}

func (e *HealthGateError) Error() string {
	return fmt.Sprintf("action %q requires health %s but the environment is %s; run 'dh validate' for details",
		e.Action, e.Gate, e.Status)
}

// requirement constrains which contexts may run an action.
type requirement int

const (
	anyContext requirement = iota
	currentProject
	backendProject
	backendVisible
)

type actionRule struct {
	requires requirement
	gate     Gate
}

// rules is the static action table, built once and read-only. Database
// actions carry the strictest gate: a broken environment plus an
// irreversible operation is the combination worth blocking.
var rules = map[Action]actionRule{
	ActionSetup:            {requires: anyContext, gate: GateNone},
	ActionValidate:         {requires: anyContext, gate: GateNone},
	ActionDev:              {requires: currentProject, gate: GateWarnOrBetter},
	ActionBuild:            {requires: currentProject, gate: GateWarnOrBetter},
	ActionDBMigrate:        {requires: backendProject, gate: GatePassOnly},
	ActionDBSyncUsers:      {requires: backendProject, gate: GatePassOnly},
	ActionClean:            {requires: anyContext, gate: GateNone},
	ActionInstall:          {requires: anyContext, gate: GateNone},
	ActionMakeRequirements: {requires: backendVisible, gate: GateNone},
}

// Dispatch validates the action against the context, applies its health
// gate, and resolves the plan. Resolution is deterministic for identical
// context, health, and options.
func Dispatch(action Action, pc *workspace.ProjectContext, opts Options, evaluate HealthFunc) (*ActionPlan, error) {
	rule, ok := rules[action]
	if !ok {
		return nil, &UnsupportedError{Action: action, Role: pc.Role(), Reason: "unknown action"}
	}

	if err := checkContext(action, rule.requires, pc); err != nil {
		return nil, err
	}

	if rule.gate != GateNone {
		report, err := evaluate(checks.ModeStandard)
		if err != nil {
			return nil, fmt.Errorf("evaluating environment health: %w", err)
		}
		if !rule.gate.met(report.Overall) {
			return nil, &HealthGateError{Action: action, Gate: rule.gate, Status: report.Overall, Report: report}
		}
	}

	return &ActionPlan{
		Action: action,
		Target: pc,
		Params: resolveParams(action, pc, opts),
		Gate:   rule.gate,
	}, nil
}

func checkContext(action Action, req requirement, pc *workspace.ProjectContext) error {
	switch req {
	case currentProject:
		if pc.Current == nil {
			return &UnsupportedError{Action: action, Role: pc.Role(),
				Reason: "run it from inside a frontend or backend project"}
		}
	case backendProject:
		if pc.Role() != workspace.RoleBackend {
			return &UnsupportedError{Action: action, Role: pc.Role(),
				Reason: "database actions are backend-owned; run it from the backend project"}
		}
	case backendVisible:
		if pc.Backend() == nil {
			return &UnsupportedError{Action: action, Role: pc.Role(),
				Reason: "no backend project found in the workspace"}
		}
	}
	return nil
}

// resolveParams fills the role-specific parameters an executor needs.
func resolveParams(action Action, pc *workspace.ProjectContext, opts Options) map[string]string {
	params := make(map[string]string)
	switch action {
	case ActionValidate:
		params["mode"] = string(checks.ModeStandard)
		if opts.Deploy {
			params["mode"] = string(checks.ModeDeploy)
		}
	case ActionDev:
		params["port"] = strconv.Itoa(checks.DevPort(pc.Role()))
		params["command"] = devCommand(pc.Role())
	case ActionBuild:
		params["target"] = "production"
		if opts.Docker {
			params["target"] = "docker"
		}
	case ActionDBMigrate:
		params["migrations"] = "migrations"
	case ActionDBSyncUsers:
		params["source"] = "allowed_users.txt"
	case ActionMakeRequirements:
		params["backend"] = pc.Backend().Path
	}
	return params
}

func devCommand(role workspace.Role) string {
	if role == workspace.RoleBackend {
		return "uv run uvicorn main:app --reload"
	}
	return "npm run dev"
}
