package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrRootNotFound indicates the workspace root does not exist or is not a
// directory.
var ErrRootNotFound = errors.New("workspace root not found")

// MarkerConfig lists the filenames whose presence classifies a project
// directory. Backend markers take precedence over frontend markers when a
// directory somehow carries both.
type MarkerConfig struct {
	Backend  []string `yaml:"backend"`
	Frontend []string `yaml:"frontend"`
}

// DefaultMarkers returns the conventional marker set: a Python service
// layout for the backend and a Node/Next.js layout for the frontend.
func DefaultMarkers() MarkerConfig {
	return MarkerConfig{
		Backend:  []string{"pyproject.toml", "main.py"},
		Frontend: []string{"package.json", "next.config.ts", "next.config.js"},
	}
}

// ScanOptions tunes scanner behavior.
type ScanOptions struct {
	// IncludeUnknown keeps unclassified directories in the map instead of
	// dropping them.
	IncludeUnknown bool
}

// Scan enumerates the immediate children of root and classifies each by its
// marker files. The traversal is read-only; unreadable children are skipped
// and recorded as warnings on the returned map.
func Scan(root string, markers MarkerConfig, opts ScanOptions) (*Map, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading workspace root %s: %w", root, err)
	}

	m := NewMap()
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(root, entry.Name())
		role, found, err := classifyDir(path, markers)
		if err != nil {
			m.Warnings = append(m.Warnings, fmt.Sprintf("skipped %s: %v", path, err))
			continue
		}
		if role == RoleUnknown && !opts.IncludeUnknown {
			continue
		}
		m.Put(&ProjectDescriptor{
			Path:    path,
			Role:    role,
			Name:    declaredName(path, role, entry.Name()),
			Markers: found,
		})
	}
	return m, nil
}

// classifyDir inspects dir for marker files. It returns the role, the
// markers found (in configured order, backend first), and an error only for
// unexpected I/O failures such as permission denial.
func classifyDir(dir string, markers MarkerConfig) (Role, []string, error) {
	var found []string
	role := RoleUnknown

	backendHits, err := presentMarkers(dir, markers.Backend)
	if err != nil {
		return RoleUnknown, nil, err
	}
	frontendHits, err := presentMarkers(dir, markers.Frontend)
	if err != nil {
		return RoleUnknown, nil, err
	}

	found = append(found, backendHits...)
	found = append(found, frontendHits...)

	// Backend misclassification is the more benign direction, so backend
	// markers win when both sets are present.
	switch {
	case len(backendHits) > 0:
		role = RoleBackend
	case len(frontendHits) > 0:
		role = RoleFrontend
	}
	return role, found, nil
}

func presentMarkers(dir string, names []string) ([]string, error) {
	var hits []string
	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		switch {
		case err == nil:
			hits = append(hits, name)
		case os.IsNotExist(err):
			// expected absence, not an error
		case os.IsPermission(err):
			return nil, err
		default:
			return nil, err
		}
	}
	return hits, nil
}

// declaredName pulls the project's self-declared name from its manifest,
// falling back to the directory basename.
func declaredName(dir string, role Role, fallback string) string {
	switch role {
	case RoleFrontend:
		if name := packageJSONName(filepath.Join(dir, "package.json")); name != "" {
			return name
		}
	case RoleBackend:
		if name := pyprojectName(filepath.Join(dir, "pyproject.toml")); name != "" {
			return name
		}
	}
	return fallback
}

func packageJSONName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var manifest struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	return manifest.Name
}

// pyprojectName does a line-level scan for the project name rather than
// pulling in a full TOML parser for a single key.
func pyprojectName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	inProject := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			inProject = line == "[project]"
			continue
		}
		if !inProject {
			continue
		}
		if key, value, ok := strings.Cut(line, "="); ok && strings.TrimSpace(key) == "name" {
			return strings.Trim(strings.TrimSpace(value), `"'`)
		}
	}
	return ""
}
