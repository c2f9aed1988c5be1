package utils

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// CommandExists reports whether a binary is resolvable on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ToolVersion probes a tool's version string, e.g. ToolVersion("node",
// "--version"). Returns "" when the tool is missing or the probe fails;
// version probes must never hang a health report, so the probe is bounded.
func ToolVersion(name string, arg string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, arg).Output()
	if err != nil {
		return ""
	}
	// Tools like docker print "Docker version 27.0.1, build ..."; keep the
	// first line only.
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line
}
