package diag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandCheck(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "pep-fake-tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", binDir)

	found := commandCheck("pep-fake-tool", "testing")
	assert.True(t, found.OK)
	assert.Equal(t, tool, found.Detail)

	missing := commandCheck("pep-absent-tool", "testing")
	assert.False(t, missing.OK)
	assert.Equal(t, "not found in PATH", missing.Detail)
}

func TestRequired(t *testing.T) {
	allGood := []Check{
		{Name: "systemd-inhibit", OK: true},
		{Name: "xset", OK: false},
		{Name: "session bus", OK: false},
	}
	assert.True(t, Required(allGood), "only systemd-inhibit is required")

	noInhibit := []Check{
		{Name: "systemd-inhibit", OK: false},
		{Name: "xset", OK: true},
	}
	assert.False(t, Required(noInhibit))
}
