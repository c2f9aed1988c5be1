package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/health"
	"github.com/dskarbrevik/devhand/pkg/ui"
)

var validateDeploy bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check if the environment is properly configured",
	Long: `Run the environment check battery for the current context and print
a health report. With --deploy, also run deployment readiness checks
(a strict superset of the standard battery).

Exit code 0 when the environment passes or only has warnings, 1 when
any check fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, err := resolveInvocation()
		if err != nil {
			exitWithError(err)
		}

		// validate carries no health gate: its whole purpose is to report.
		plan, err := dispatch.Dispatch(dispatch.ActionValidate, inv.pc, dispatch.Options{Deploy: validateDeploy}, inv.healthFunc())
		if err != nil {
			exitWithError(err)
		}

		report, err := inv.healthFunc()(checks.Mode(plan.Params["mode"]))
		if err != nil {
			exitWithError(err)
		}
		printReport(inv, report)
		if report.Overall == checks.StatusFail {
			os.Exit(exitHealth)
		}
	},
}

func printReport(inv *invocation, report *health.Report) {
	if report.Mode == checks.ModeDeploy {
		ui.Header("🚀 Validating deployment configuration (%s)...", inv.pc.Role())
	} else {
		ui.Header("🔍 Validating development environment (%s)...", inv.pc.Role())
	}
	for _, warning := range inv.pc.Warnings {
		ui.Warning("%s", warning)
	}

	for _, res := range report.Results {
		line := res.Message
		if res.Hint != "" {
			line += " — " + res.Hint
		}
		switch res.Status {
		case checks.StatusPass:
			ui.Success("%s", line)
		case checks.StatusWarn:
			ui.Warning("%s", line)
		case checks.StatusFail:
			ui.Error("%s", line)
		}
	}

	pass, warn, fail := report.Counts()
	ui.Plain("")
	switch report.Overall {
	case checks.StatusPass:
		ui.Plain("✨ All %d checks passed!", pass)
	case checks.StatusWarn:
		ui.Plain("Checks: %d passed, %d warning(s).", pass, warn)
	case checks.StatusFail:
		ui.Plain("Checks: %d passed, %d warning(s), %d failed.", pass, warn, fail)
		ui.Plain("Run 'dh setup' to fix configuration issues.")
	}
}

func init() {
	validateCmd.Flags().BoolVar(&validateDeploy, "deploy", false,
		"Validate deployment readiness (backend, database, frontend)")
	rootCmd.AddCommand(validateCmd)
}
