// Package runner holds the external executors the dispatcher's plans are
// handed to: process spawning, builds, artifact cleanup, dependency
// installs. The engine decides; this package runs.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Run executes a command line in dir, streaming output to the console.
// The command string is split on whitespace; nothing the CLI runs needs
// shell quoting.
func Run(ctx context.Context, dir, command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// RunInteractive executes a command line in dir under a pseudo-terminal
// when stdout is a terminal, so tools keep their colored, interactive
// output. Falls back to a plain pipe otherwise.
func RunInteractive(ctx context.Context, dir, command string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return Run(ctx, dir, command)
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = dir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Run(ctx, dir, command)
	}
	defer func() { _ = ptmx.Close() }()

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)
	return cmd.Wait()
}

// ExitCode extracts the exit code from a command error, or -1 when the
// error is not an exit status.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
