package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dskarbrevik/devhand/pkg/db"
	"github.com/dskarbrevik/devhand/pkg/dispatch"
	"github.com/dskarbrevik/devhand/pkg/ui"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Backend database operations",
	Long: `Database operations owned by the backend project. These commands
require a fully passing environment: a database action against a broken
environment risks inconsistent state.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run SQL migrations against the database",
	Long: `Apply every .sql file in the backend's migrations directory in lexical
order. Timestamped filenames keep that order correct. Stops at the
first failing migration.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, plan := dispatchDB(dispatch.ActionDBMigrate)
		client, err := dbClient(inv)
		if err != nil {
			exitWithError(err)
		}
		dir := filepath.Join(plan.Target.Current.Path, plan.Params["migrations"])
		err = client.RunMigrations(context.Background(), dir, func(file string) {
			ui.Info("applying %s", file)
		})
		if err != nil {
			exitWithError(err)
		}
		ui.Success("migrations complete")
	},
}

var dbSyncUsersCmd = &cobra.Command{
	Use:   "sync-users",
	Short: "Sync the allowed users list to the database",
	Long: `Read the backend's allowed_users.txt (one email per line, '#' starts a
comment) and push each signed-up user into the allowed_users table.
Users that have not signed up yet are reported, not treated as errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		inv, plan := dispatchDB(dispatch.ActionDBSyncUsers)
		client, err := dbClient(inv)
		if err != nil {
			exitWithError(err)
		}
		source := filepath.Join(plan.Target.Current.Path, plan.Params["source"])
		data, err := os.ReadFile(source)
		if err != nil {
			exitWithError(fmt.Errorf("reading allowed users list: %w", err))
		}
		stats, err := client.SyncAllowedUsers(context.Background(), strings.Split(string(data), "\n"),
			func(email, outcome string) {
				ui.Info("%s: %s", email, outcome)
			})
		if err != nil {
			exitWithError(err)
		}
		ui.Success("sync complete: %d added, %d skipped, %d not found",
			stats.Added, stats.Skipped, stats.NotFound)
	},
}

// dispatchDB runs the shared resolve + dispatch sequence for db actions.
func dispatchDB(action dispatch.Action) (*invocation, *dispatch.ActionPlan) {
	inv, err := resolveInvocation()
	if err != nil {
		exitWithError(err)
	}
	plan, err := dispatch.Dispatch(action, inv.pc, dispatch.Options{}, inv.healthFunc())
	if err != nil {
		exitWithError(err)
	}
	return inv, plan
}

func dbClient(inv *invocation) (*db.Client, error) {
	if inv.cfg.DB.URL == "" || inv.cfg.DB.SecretKey == "" {
		return nil, fmt.Errorf("database credentials not configured; run 'dh setup'")
	}
	return db.NewClient(inv.cfg.DB.URL, inv.cfg.DB.SecretKey), nil
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSyncUsersCmd)
	rootCmd.AddCommand(dbCmd)
}
