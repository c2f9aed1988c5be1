package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandExists(t *testing.T) {
	assert.True(t, CommandExists("ls"))
	assert.False(t, CommandExists("definitely-not-a-real-tool-xyz"))
}

func TestToolVersionMissingTool(t *testing.T) {
	assert.Empty(t, ToolVersion("definitely-not-a-real-tool-xyz", "--version"))
}

func TestToolVersionFirstLineOnly(t *testing.T) {
	if !CommandExists("sh") {
		t.Skip("sh not available")
	}
	out := ToolVersion("sh", "-version")
	// Probe may fail depending on the shell; the contract is just that the
	// result never contains a newline.
	assert.NotContains(t, out, "\n")
}
