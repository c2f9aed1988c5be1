package db

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExecSQL runs a SQL statement through the project's exec_sql RPC. DDL is
// not expressible over the plain REST surface, so migrations rely on this
// helper function being deployed.
func (c *Client) ExecSQL(ctx context.Context, sql string) error {
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/exec_sql", map[string]string{"query": sql})
	if err != nil {
		return fmt.Errorf("executing sql: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("executing sql: %s", resp.Status)
	}
	return nil
}

// MigrationEvent reports per-file progress; nil disables reporting.
type MigrationEvent func(file string)

// RunMigrations applies every *.sql file in dir in lexical order, which
// timestamped filenames keep correct. It stops at the first
// failing file. An empty directory is a no-op; a missing one is an error.
func (c *Client) RunMigrations(ctx context.Context, dir string, report MigrationEvent) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrations directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if report != nil {
			report(name)
		}
		if err := c.ExecSQL(ctx, string(sql)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}
