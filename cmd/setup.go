package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/config"
	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/runner"
	"github.com/dskarbrevik/devhand/pkg/ui"
	"github.com/dskarbrevik/devhand/pkg/utils"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "One-time setup of the development environment",
	Long: `Walk through the initial environment setup: detect the workspace
projects, verify required tools, configure database credentials, write
the .env files, and install dependencies. Setup carries no health gate;
its job is to reach a healthy state.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}
		if _, err := dispatch.Dispatch(dispatch.ActionSetup, inv.pc, dispatch.Options{}, inv.healthFunc()); err != nil {
			exitWithError(err)
		}
		if err := runSetup(inv); err != nil {
			exitWithError(err)
		}
	},
}

func runSetup(inv *invocation) error {
	ui.Header("🚀 Setting up development environment...")

	fe := inv.pc.Frontend()
	be := inv.pc.Backend()

	ui.Step(1, "Detecting project structure...")
	if fe != nil {
		ui.Success("Frontend detected: %s", fe.Path)
	}
	if be != nil {
		ui.Success("Backend detected: %s", be.Path)
	}
	if fe == nil && be == nil {
		ui.Info("Expected frontend markers: %s", strings.Join(inv.cfg.Markers.Frontend, ", "))
		ui.Info("Expected backend markers: %s", strings.Join(inv.cfg.Markers.Backend, ", "))
		return &dispatch.UnsupportedError{
			Action: dispatch.ActionSetup,
			Role:   inv.pc.Role(),
			Reason: "no projects detected in workspace",
		}
	}

	ui.Step(2, "Checking required tools...")
	if err := checkSetupTools(fe, be); err != nil {
		return err
	}

	ui.Step(3, "Configuring database credentials...")
	configure, err := ui.PromptConfirm("Configure database credentials?", true)
	if err != nil {
		return err
	}
	if configure {
		if err := promptCredentials(inv, fe, be); err != nil {
			return err
		}
		if err := writeEnvFiles(inv, fe, be); err != nil {
			return err
		}
		if err := inv.cfg.Save(inv.pc.Root); err != nil {
			return err
		}
	}

	ui.Step(4, "Installing dependencies...")
	if err := runner.Install(context.Background(), inv.pc); err != nil {
		// Setup keeps going; validate will surface what is still broken.
		ui.Error("dependency install failed: %v", err)
	}

	ui.Step(5, "Verifying .gitignore...")
	verifyGitignore(fe)
	verifyGitignore(be)

	ui.Header("✨ Setup complete!")
	ui.Plain("Next steps:")
	ui.Plain("  1. Run 'dh validate' to verify everything")
	ui.Plain("  2. Run 'dh db migrate' to initialize database tables")
	ui.Plain("  3. Run 'dh dev' to start a development server")
	return nil
}

func checkSetupTools(fe, be *workspace.ProjectDescriptor) error {
	ok := true
	requireTool := func(name, hint string) {
		if utils.CommandExists(name) {
			ui.Success("%s: %s", name, utils.ToolVersion(name, "--version"))
			return
		}
		ui.Error("%s not installed%s", name, hint)
		ok = false
	}
	if fe != nil {
		requireTool("node", " (required for frontend)")
		requireTool("npm", " (required for frontend)")
	}
	if be != nil {
		requireTool("uv", "; install: curl -LsSf https://astral.sh/uv/install.sh | sh")
	}
	if utils.CommandExists("docker") {
		ui.Success("docker: %s", utils.ToolVersion("docker", "--version"))
	} else {
		ui.Warning("Docker not found (optional, needed for 'dh build --docker')")
	}
	if !ok {
		return fmt.Errorf("please install the missing tools and run setup again")
	}
	return nil
}

func promptCredentials(inv *invocation, fe, be *workspace.ProjectDescriptor) error {
	cfg := inv.cfg
	var err error

	cfg.DB.URL, err = ui.PromptText("Database URL (e.g. https://xxx.supabase.co)", cfg.DB.URL)
	if err != nil {
		return err
	}
	cfg.DB.ProjectRef = config.ProjectRefFromURL(cfg.DB.URL)

	ui.Info("Find keys in: Dashboard > Settings > API")
	cfg.DB.PublicKey, err = ui.PromptText("Public/anon key (for the frontend deployment)", cfg.DB.PublicKey)
	if err != nil {
		return err
	}

	ui.Info("The following are for dh CLI operations only (never deployed):")
	cfg.DB.SecretKey, err = ui.PromptSecret("Secret/service-role key", cfg.DB.SecretKey)
	if err != nil {
		return err
	}
	cfg.DB.Password, err = ui.PromptSecret("Database password (for migrations)", cfg.DB.Password)
	if err != nil {
		return err
	}
	cfg.DB.AccessToken, err = ui.PromptSecret("Access token (from the dashboard account page)", cfg.DB.AccessToken)
	if err != nil {
		return err
	}

	if be != nil {
		def := cfg.Deployment.APIURL
		if def == "" {
			def = "http://localhost:8000"
		}
		cfg.Deployment.APIURL, err = ui.PromptText("Backend API URL (for the frontend)", def)
		if err != nil {
			return err
		}
	}
	if fe != nil {
		cfg.Deployment.VercelURL, err = ui.PromptText("Frontend deployment URL (optional)", cfg.Deployment.VercelURL)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeEnvFiles renders and writes each project's .env, previewing a diff
// and asking before overwriting existing contents.
func writeEnvFiles(inv *invocation, fe, be *workspace.ProjectDescriptor) error {
	write := func(project *workspace.ProjectDescriptor, content string) error {
		path := filepath.Join(project.Path, ".env")
		if diff := config.EnvDiff(path, content); diff != "" {
			ui.Plain("\nChanges to %s:", path)
			ui.Plain("%s", diff)
			overwrite, err := ui.PromptConfirm("Apply these changes?", true)
			if err != nil {
				return err
			}
			if !overwrite {
				ui.Warning("left %s unchanged", path)
				return nil
			}
		}
		if err := config.WriteEnv(path, content); err != nil {
			return err
		}
		ui.Success("Configuration saved to %s", path)
		return nil
	}

	if fe != nil {
		if err := write(fe, config.RenderFrontendEnv(inv.cfg)); err != nil {
			return err
		}
	}
	if be != nil {
		if err := write(be, config.RenderBackendEnv(inv.cfg)); err != nil {
			return err
		}
	}
	return nil
}

func verifyGitignore(project *workspace.ProjectDescriptor) {
	if project == nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(project.Path, ".gitignore"))
	if err != nil {
		ui.Warning("%s has no .gitignore", project.Name)
		return
	}
	if strings.Contains(string(data), ".env") {
		ui.Success("%s .env is gitignored", project.Name)
	} else {
		ui.Warning("%s .env is not in .gitignore", project.Name)
	}
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
