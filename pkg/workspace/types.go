package workspace

// Role classifies a project directory within the workspace.
type Role string

const (
	RoleFrontend      Role = "frontend"
	RoleBackend       Role = "backend"
	RoleWorkspaceRoot Role = "workspace-root"
	RoleUnknown       Role = "unknown"
)

// Complement returns the paired role: frontend for backend and vice versa.
// Roles without a pair complement to RoleUnknown.
func (r Role) Complement() Role {
	switch r {
	case RoleFrontend:
		return RoleBackend
	case RoleBackend:
		return RoleFrontend
	default:
		return RoleUnknown
	}
}

// ProjectDescriptor describes one project directory found by the scanner.
// Descriptors are never mutated after the scan that produced them.
type ProjectDescriptor struct {
	Path    string
	Role    Role
	Name    string
	Markers []string
}

// Map is the set of projects discovered under a workspace root, keyed by
// path and preserving discovery order. Built once per invocation.
type Map struct {
	projects map[string]*ProjectDescriptor
	order    []string

	// Warnings collects non-fatal scan conditions, e.g. unreadable
	// subdirectories that were skipped.
	Warnings []string
}

// NewMap returns an empty workspace map.
func NewMap() *Map {
	return &Map{projects: make(map[string]*ProjectDescriptor)}
}

// Put records a descriptor, preserving first-insertion order. The scanner
// is the normal producer; tests build maps directly.
func (m *Map) Put(d *ProjectDescriptor) {
	if _, ok := m.projects[d.Path]; !ok {
		m.order = append(m.order, d.Path)
	}
	m.projects[d.Path] = d
}

// Get returns the descriptor for the given path, or nil.
func (m *Map) Get(path string) *ProjectDescriptor {
	return m.projects[path]
}

// Projects returns descriptors in discovery order.
func (m *Map) Projects() []*ProjectDescriptor {
	out := make([]*ProjectDescriptor, 0, len(m.order))
	for _, p := range m.order {
		out = append(out, m.projects[p])
	}
	return out
}

// ByRole returns all descriptors with the given role, in discovery order.
func (m *Map) ByRole(role Role) []*ProjectDescriptor {
	var out []*ProjectDescriptor
	for _, d := range m.Projects() {
		if d.Role == role {
			out = append(out, d)
		}
	}
	return out
}

// Len reports the number of mapped projects.
func (m *Map) Len() int { return len(m.order) }

// ProjectContext is the resolved identity of the project associated with
// the current working directory. It is recomputed fresh on every run.
type ProjectContext struct {
	// Current is the project containing the working directory, or nil
	// when running from the workspace root itself.
	Current *ProjectDescriptor

	// Sibling is the paired project of the complementary role, if exactly
	// one could be resolved.
	Sibling *ProjectDescriptor

	// Root is the workspace root path.
	Root string

	// Workspace is the full map the context was resolved against, kept so
	// commands run from the root can still locate both projects.
	Workspace *Map

	// Warnings collects non-fatal resolution conditions, e.g. an
	// ambiguous sibling.
	Warnings []string
}

// Role returns the role of the current project, or RoleWorkspaceRoot when
// running from the root.
func (pc *ProjectContext) Role() Role {
	if pc.Current == nil {
		return RoleWorkspaceRoot
	}
	return pc.Current.Role
}

// Frontend returns the frontend project visible from this context: the
// current project if it is the frontend, else the sibling, else a lone
// frontend entry in the workspace map. Returns nil if none.
func (pc *ProjectContext) Frontend() *ProjectDescriptor {
	return pc.byRole(RoleFrontend)
}

// Backend returns the backend project visible from this context.
func (pc *ProjectContext) Backend() *ProjectDescriptor {
	return pc.byRole(RoleBackend)
}

func (pc *ProjectContext) byRole(role Role) *ProjectDescriptor {
	if pc.Current != nil && pc.Current.Role == role {
		return pc.Current
	}
	if pc.Sibling != nil && pc.Sibling.Role == role {
		return pc.Sibling
	}
	if pc.Workspace != nil {
		if matches := pc.Workspace.ByRole(role); len(matches) == 1 {
			return matches[0]
		}
	}
	return nil
}
