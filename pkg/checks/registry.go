package checks

import (
	"fmt"

	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// Definition is one registered environment check. Checks are pure functions
// of the filesystem/environment at call time and must not mutate state. An
// expected absence (missing file, missing tool) is a fail or warn Result,
// never a returned error or panic.
type Definition struct {
	Name  string
	Roles []workspace.Role
	Modes []Mode
	Run   func(pc *workspace.ProjectContext) Result
}

// AppliesTo reports whether the check runs for the given role and mode.
func (d *Definition) AppliesTo(role workspace.Role, mode Mode) bool {
	return containsRole(d.Roles, role) && containsMode(d.Modes, mode)
}

func containsRole(roles []workspace.Role, role workspace.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsMode(modes []Mode, mode Mode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Registry is an ordered, read-only collection of check definitions built
// once at process start. Registration order is the report order.
type Registry struct {
	defs  []Definition
	names map[string]struct{}
}

// NewRegistry builds a registry from definitions, rejecting duplicates.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{names: make(map[string]struct{})}
	for _, d := range defs {
		if err := r.register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(d Definition) error {
	if d.Name == "" {
		return fmt.Errorf("check definition missing a name")
	}
	if d.Run == nil {
		return fmt.Errorf("check %q missing a run function", d.Name)
	}
	if _, dup := r.names[d.Name]; dup {
		return fmt.Errorf("duplicate check name %q", d.Name)
	}
	r.names[d.Name] = struct{}{}
	r.defs = append(r.defs, d)
	return nil
}

// Definitions returns all checks in registration order.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Select returns the checks applicable to a role and mode, preserving
// registration order.
func (r *Registry) Select(role workspace.Role, mode Mode) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if d.AppliesTo(role, mode) {
			out = append(out, d)
		}
	}
	return out
}

// Len reports the number of registered checks.
func (r *Registry) Len() int { return len(r.defs) }
