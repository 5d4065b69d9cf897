package autostart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSystemctl records systemctl invocations and can fail selected verbs.
type fakeSystemctl struct {
	calls  []string
	errOn  string
	output []byte
	err    error
}

func (f *fakeSystemctl) run(_ context.Context, _ string, args ...string) ([]byte, error) {
	call := strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.errOn != "" && strings.Contains(call, f.errOn) {
		return f.output, f.err
	}
	return nil, nil
}

func newTestManager(f *fakeSystemctl) *Manager {
	return &Manager{systemctlPath: "systemctl", runCommand: f.run}
}

func TestManager_EnableInstallsUnit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fake := &fakeSystemctl{}
	m := newTestManager(fake)

	err := m.Enable(context.Background())
	require.NoError(t, err)

	unitPath, err := UnitPath()
	require.NoError(t, err)

	content, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ExecStart=")
	assert.Contains(t, string(content), "WantedBy=graphical-session.target")

	assert.Equal(t, []string{
		"--user daemon-reload",
		"--user enable pep.service",
	}, fake.calls)
}

func TestManager_EnableSkipsInstallWhenUnitExists(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	unitDir := filepath.Join(configHome, "systemd", "user")
	require.NoError(t, os.MkdirAll(unitDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(unitDir, "pep.service"), []byte("[Unit]\n"), 0644))

	fake := &fakeSystemctl{}
	m := newTestManager(fake)

	err := m.Enable(context.Background())
	require.NoError(t, err)

	// No reinstall, no daemon-reload.
	assert.Equal(t, []string{"--user enable pep.service"}, fake.calls)
}

func TestManager_EnableWithoutSystemctl(t *testing.T) {
	fake := &fakeSystemctl{}
	m := &Manager{runCommand: fake.run}

	assert.False(t, m.Available())

	err := m.Enable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "systemctl not found")
	assert.Empty(t, fake.calls)
}

func TestManager_EnableSurfacesSystemctlOutput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fake := &fakeSystemctl{
		errOn:  "enable",
		output: []byte("Failed to enable unit: refused\n"),
		err:    errors.New("exit status 1"),
	}
	m := newTestManager(fake)

	err := m.Enable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to enable unit: refused")
}

func TestManager_Disable(t *testing.T) {
	fake := &fakeSystemctl{}
	m := newTestManager(fake)

	err := m.Disable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"--user disable pep.service"}, fake.calls)
}

func TestManager_DisableFailure(t *testing.T) {
	fake := &fakeSystemctl{
		errOn: "disable",
		err:   errors.New("exit status 1"),
	}
	m := newTestManager(fake)

	err := m.Disable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "systemctl disable failed")
}

func TestManager_IsEnabled(t *testing.T) {
	fake := &fakeSystemctl{}
	m := newTestManager(fake)
	assert.True(t, m.IsEnabled(context.Background()))
	assert.Equal(t, []string{"--user is-enabled pep.service"}, fake.calls)

	failing := &fakeSystemctl{errOn: "is-enabled", err: errors.New("exit status 1")}
	assert.False(t, newTestManager(failing).IsEnabled(context.Background()))

	missing := &Manager{runCommand: fake.run}
	assert.False(t, missing.IsEnabled(context.Background()))
}
