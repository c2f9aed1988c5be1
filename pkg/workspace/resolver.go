package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace indicates the working directory is neither the
// workspace root nor inside any mapped project.
var ErrOutsideWorkspace = errors.New("not inside a workspace")

// Resolve determines the active project context for cwd against a scanned
// workspace map. It never fails on sibling ambiguity; zero or multiple
// complementary projects leave the sibling absent with a warning attached.
func Resolve(cwd, root string, m *Map) (*ProjectContext, error) {
	cwd = filepath.Clean(cwd)
	root = filepath.Clean(root)

	pc := &ProjectContext{Root: root, Workspace: m}
	pc.Warnings = append(pc.Warnings, m.Warnings...)

	if cwd == root {
		return pc, nil
	}

	// Longest-prefix match so nested working directories inside a project
	// still resolve to it.
	var current *ProjectDescriptor
	for _, d := range m.Projects() {
		if cwd != d.Path && !strings.HasPrefix(cwd, d.Path+string(filepath.Separator)) {
			continue
		}
		if current == nil || len(d.Path) > len(current.Path) {
			current = d
		}
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrOutsideWorkspace, cwd)
	}
	pc.Current = current

	complement := current.Role.Complement()
	if complement == RoleUnknown {
		return pc, nil
	}
	candidates := m.ByRole(complement)
	switch len(candidates) {
	case 1:
		pc.Sibling = candidates[0]
	case 0:
		pc.Warnings = append(pc.Warnings,
			fmt.Sprintf("no %s project found to pair with %s", complement, current.Name))
	default:
		pc.Warnings = append(pc.Warnings,
			fmt.Sprintf("multiple %s projects found; sibling left unresolved", complement))
	}
	return pc, nil
}

// FindRoot walks upward from cwd looking for the workspace root: a
// directory holding a .dh config, a directory whose children classify as
// projects, or the parent of a directory that itself classifies as a
// project.
func FindRoot(cwd string, markers MarkerConfig) (string, error) {
	dir := filepath.Clean(cwd)
	for {
		if _, err := os.Stat(filepath.Join(dir, ".dh", "config.yaml")); err == nil {
			return dir, nil
		}
		if role, _, err := classifyDir(dir, markers); err == nil && role != RoleUnknown {
			return filepath.Dir(dir), nil
		}
		if m, err := Scan(dir, markers, ScanOptions{}); err == nil && m.Len() > 0 {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no workspace root above %s", ErrOutsideWorkspace, cwd)
		}
		dir = parent
	}
}
