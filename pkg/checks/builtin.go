package checks

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dskarbrevik/devhand/pkg/config"
	"github.com/dskarbrevik/devhand/pkg/db"
	"github.com/dskarbrevik/devhand/pkg/utils"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// Default dev server ports per role.
const (
	FrontendDevPort = 3000
	BackendDevPort  = 8000
)

var (
	frontendOnly = []workspace.Role{workspace.RoleFrontend}
	backendOnly  = []workspace.Role{workspace.RoleBackend}
	anyRole      = []workspace.Role{workspace.RoleFrontend, workspace.RoleBackend, workspace.RoleWorkspaceRoot}

	bothModes  = []Mode{ModeStandard, ModeDeploy}
	deployOnly = []Mode{ModeDeploy}
)

// networkTimeout bounds the deploy-mode probes that leave the machine.
const networkTimeout = 10 * time.Second

// DefaultRegistry builds the standard check battery. Order is significant:
// tooling, manifests, installed dependencies, configuration, services, then
// deploy-only readiness checks.
func DefaultRegistry(cfg *config.Config) (*Registry, error) {
	return NewRegistry(
		toolCheck("node-installed", "node", frontendOnly, "install Node.js from https://nodejs.org"),
		toolCheck("npm-installed", "npm", frontendOnly, "npm ships with Node.js"),
		toolCheck("python-installed", "python3", backendOnly, "install Python 3"),
		toolCheck("uv-installed", "uv", backendOnly, "install: curl -LsSf https://astral.sh/uv/install.sh | sh"),

		fileCheck("frontend-manifest", "package.json", frontendOnly, StatusFail, ""),
		fileCheck("backend-manifest", "pyproject.toml", backendOnly, StatusFail, ""),
		fileCheck("node-modules", "node_modules", frontendOnly, StatusWarn, "run 'dh install'"),
		fileCheck("venv", ".venv", backendOnly, StatusWarn, "run 'dh install'"),
		fileCheck("frontend-env", ".env", frontendOnly, StatusWarn, "run 'dh setup'"),
		fileCheck("backend-env", ".env", backendOnly, StatusWarn, "optional for the backend; run 'dh setup' to create it"),

		envGitignoredCheck(),
		dockerCheck(),
		portCheck(),
		dbConfiguredCheck(cfg),

		deployEnvCompleteCheck(),
		backendURLProductionCheck(cfg),
		backendReachableCheck(cfg),
		databaseURLFormatCheck(cfg),
		databaseConnectionCheck(cfg),
		allowedUsersTableCheck(cfg),
		fileCheckDeploy("frontend-build-artifacts", []string{".next", "dist"}, frontendOnly, "run 'npm run build'"),
		fileCheckDeploy("backend-requirements", []string{"requirements.txt"}, backendOnly, "run 'dh make requirements'"),
	)
}

// toolCheck verifies a binary is on PATH and reports its version.
func toolCheck(name, binary string, roles []workspace.Role, hint string) Definition {
	return Definition{
		Name:  name,
		Roles: roles,
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			if !utils.CommandExists(binary) {
				return fail(name, hint, "%s not installed", binary)
			}
			if version := utils.ToolVersion(binary, "--version"); version != "" {
				return pass(name, "%s: %s", binary, version)
			}
			return pass(name, "%s installed", binary)
		},
	}
}

// fileCheck verifies a file or directory exists inside the current project.
func fileCheck(name, rel string, roles []workspace.Role, missing Status, hint string) Definition {
	return Definition{
		Name:  name,
		Roles: roles,
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			path := filepath.Join(pc.Current.Path, rel)
			if _, err := os.Stat(path); err != nil {
				if missing == StatusFail {
					return fail(name, hint, "%s not found", rel)
				}
				return warn(name, hint, "%s not found", rel)
			}
			return pass(name, "%s exists", rel)
		},
	}
}

// fileCheckDeploy passes when any of the candidate paths exists; deploy
// mode only, always warn on absence.
func fileCheckDeploy(name string, candidates []string, roles []workspace.Role, hint string) Definition {
	return Definition{
		Name:  name,
		Roles: roles,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			for _, rel := range candidates {
				if _, err := os.Stat(filepath.Join(pc.Current.Path, rel)); err == nil {
					return pass(name, "%s present", rel)
				}
			}
			return warn(name, hint, "no build artifacts found (%s)", strings.Join(candidates, ", "))
		},
	}
}

// envGitignoredCheck verifies the project's .gitignore covers .env so
// secrets cannot be committed.
func envGitignoredCheck() Definition {
	const name = "env-gitignored"
	return Definition{
		Name:  name,
		Roles: []workspace.Role{workspace.RoleFrontend, workspace.RoleBackend},
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			path := filepath.Join(pc.Current.Path, ".gitignore")
			matcher, err := ignore.CompileIgnoreFile(path)
			if err != nil {
				return warn(name, "add a .gitignore with a .env entry", ".gitignore not found")
			}
			if !matcher.MatchesPath(".env") {
				return warn(name, "add '.env' to .gitignore", ".env is not gitignored")
			}
			return pass(name, ".env is gitignored")
		},
	}
}

func dockerCheck() Definition {
	const name = "docker-available"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			if !utils.CommandExists("docker") {
				return warn(name, "optional; needed for 'dh build --docker'", "docker not installed")
			}
			if version := utils.ToolVersion("docker", "--version"); version != "" {
				return pass(name, "%s", version)
			}
			return pass(name, "docker installed")
		},
	}
}

// portCheck probes the role's default dev server port. A bound port is a
// warning, not a failure: the dev server may already be running.
func portCheck() Definition {
	const name = "dev-port-free"
	return Definition{
		Name:  name,
		Roles: []workspace.Role{workspace.RoleFrontend, workspace.RoleBackend},
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			port := DevPort(pc.Role())
			ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
			if err != nil {
				return warn(name, "stop the process using it or expect the dev server to pick another port",
					"port %d is already in use", port)
			}
			_ = ln.Close()
			return pass(name, "port %d is free", port)
		},
	}
}

// DevPort returns the default dev server port for a role.
func DevPort(role workspace.Role) int {
	if role == workspace.RoleBackend {
		return BackendDevPort
	}
	return FrontendDevPort
}

func dbConfiguredCheck(cfg *config.Config) Definition {
	const name = "db-configured"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: bothModes,
		Run: func(pc *workspace.ProjectContext) Result {
			if cfg.DB.URL == "" {
				return warn(name, "run 'dh setup'", "database not configured")
			}
			if cfg.DB.SecretKey == "" {
				return warn(name, "run 'dh setup'", "database URL set but secret key missing")
			}
			return pass(name, "database configured: %s", cfg.DB.URL)
		},
	}
}

func deployEnvCompleteCheck() Definition {
	const name = "deploy-env-complete"
	required := []string{
		"NEXT_PUBLIC_SUPABASE_URL",
		"NEXT_PUBLIC_SUPABASE_KEY",
		"NEXT_PUBLIC_API_URL",
	}
	return Definition{
		Name:  name,
		Roles: frontendOnly,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			env, err := config.LoadEnv(filepath.Join(pc.Current.Path, ".env"))
			if err != nil {
				return fail(name, "", "reading .env: %v", err)
			}
			var missing []string
			for _, key := range required {
				if env[key] == "" {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				return fail(name, "run 'dh setup'", "missing environment variables: %s", strings.Join(missing, ", "))
			}
			return pass(name, "all required environment variables configured")
		},
	}
}

func backendURLProductionCheck(cfg *config.Config) Definition {
	const name = "backend-url-production"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			url := cfg.Deployment.APIURL
			if url == "" {
				return fail(name, "run 'dh setup'", "backend API URL not configured")
			}
			if isLocalhost(url) {
				return fail(name, "deploy the backend and update the API URL", "backend URL is localhost: %s", url)
			}
			return pass(name, "backend URL configured: %s", url)
		},
	}
}

func backendReachableCheck(cfg *config.Config) Definition {
	const name = "backend-reachable"
	client := &http.Client{Timeout: networkTimeout}
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			url := cfg.Deployment.APIURL
			if url == "" || isLocalhost(url) {
				return warn(name, "", "skipped: no production backend URL to probe")
			}
			resp, err := client.Get(url)
			if err != nil {
				return fail(name, "check the backend deployment", "backend not reachable: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return fail(name, "check the backend deployment", "backend responded with %s", resp.Status)
			}
			return pass(name, "backend is accessible (%s)", resp.Status)
		},
	}
}

func databaseURLFormatCheck(cfg *config.Config) Definition {
	const name = "database-url-format"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			url := cfg.DB.URL
			if url == "" {
				return fail(name, "run 'dh setup'", "database URL not configured")
			}
			if !strings.HasPrefix(url, "https://") || !strings.Contains(url, ".supabase.co") {
				return fail(name, "expected https://<ref>.supabase.co", "database URL format looks incorrect: %s", url)
			}
			return pass(name, "database URL format ok")
		},
	}
}

func databaseConnectionCheck(cfg *config.Config) Definition {
	const name = "database-connection"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			if cfg.DB.URL == "" || cfg.DB.SecretKey == "" {
				return warn(name, "run 'dh setup'", "database credentials incomplete; cannot test connection")
			}
			ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
			defer cancel()
			client := db.NewClient(cfg.DB.URL, cfg.DB.SecretKey)
			if err := client.TestConnection(ctx); err != nil {
				return fail(name, "verify the secret key, not the public key, is configured",
					"database connection failed: %v", err)
			}
			return pass(name, "database connection successful")
		},
	}
}

func allowedUsersTableCheck(cfg *config.Config) Definition {
	const name = "allowed-users-table"
	return Definition{
		Name:  name,
		Roles: anyRole,
		Modes: deployOnly,
		Run: func(pc *workspace.ProjectContext) Result {
			if cfg.DB.URL == "" || cfg.DB.SecretKey == "" {
				return warn(name, "run 'dh setup'", "database credentials incomplete; cannot check tables")
			}
			ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
			defer cancel()
			client := db.NewClient(cfg.DB.URL, cfg.DB.SecretKey)
			exists, err := client.TableExists(ctx, "allowed_users")
			if err != nil {
				return fail(name, "", "checking allowed_users table: %v", err)
			}
			if !exists {
				return fail(name, "run 'dh db migrate'", "allowed_users table not found")
			}
			return pass(name, "allowed_users table exists")
		},
	}
}

func isLocalhost(url string) bool {
	return strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1")
}
