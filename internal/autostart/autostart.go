// Package autostart manages the user systemd unit that starts pep at login.
package autostart

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/pep/internal/config"
	"github.com/bnema/pep/internal/logging"
)

const (
	unitName = "pep.service"
	filePerm = 0644
	dirPerm  = 0755

	// systemctlTimeout bounds each systemctl invocation.
	systemctlTimeout = 5 * time.Second
)

// unitTemplate is the systemd user unit installed on first enable.
// %s placeholder for executable path.
const unitTemplate = `[Unit]
Description=Pep keep-awake tray
After=graphical-session.target
PartOf=graphical-session.target

[Service]
Type=simple
ExecStart=%s
Restart=on-failure

[Install]
WantedBy=graphical-session.target
`

// Manager toggles whether pep starts at login via systemctl --user.
type Manager struct {
	systemctlPath string
	runCommand    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a new autostart manager.
func New() *Manager {
	m := &Manager{runCommand: runCombined}

	if path, err := exec.LookPath("systemctl"); err == nil {
		m.systemctlPath = path
	}
	return m
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Available reports whether systemctl was found on PATH.
func (m *Manager) Available() bool {
	return m.systemctlPath != ""
}

func (m *Manager) systemctl(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, systemctlTimeout)
	defer cancel()
	return m.runCommand(ctx, m.systemctlPath, args...)
}

// UnitPath returns the full path of the pep user unit.
func UnitPath() (string, error) {
	unitDir, err := config.GetSystemdUserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(unitDir, unitName), nil
}

// getExecutablePath returns the path to the pep executable.
func getExecutablePath() (string, error) {
	execPath, err := os.Executable()
	if err == nil {
		// Resolve symlinks
		if resolved, symlinkErr := filepath.EvalSymlinks(execPath); symlinkErr == nil {
			execPath = resolved
		}
		return execPath, nil
	}

	path, err := exec.LookPath("pep")
	if err != nil {
		return "", fmt.Errorf("cannot find pep executable: %w", err)
	}
	return path, nil
}

// Enable installs the unit if needed and enables it for the user session.
func (m *Manager) Enable(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if m.systemctlPath == "" {
		return fmt.Errorf("systemctl not found (is this a systemd system?)")
	}

	if err := m.ensureUnitInstalled(ctx); err != nil {
		return err
	}

	if out, err := m.systemctl(ctx, "--user", "enable", unitName); err != nil {
		return fmt.Errorf("systemctl enable failed: %s", commandError(out, err))
	}

	log.Info().Msg("autostart enabled")
	return nil
}

// Disable disables the unit for the user session.
func (m *Manager) Disable(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if m.systemctlPath == "" {
		return fmt.Errorf("systemctl not found (is this a systemd system?)")
	}

	if out, err := m.systemctl(ctx, "--user", "disable", unitName); err != nil {
		return fmt.Errorf("systemctl disable failed: %s", commandError(out, err))
	}

	log.Info().Msg("autostart disabled")
	return nil
}

// IsEnabled reports whether the unit is enabled for the user session.
func (m *Manager) IsEnabled(ctx context.Context) bool {
	if m.systemctlPath == "" {
		return false
	}

	_, err := m.systemctl(ctx, "--user", "is-enabled", unitName)
	return err == nil
}

// ensureUnitInstalled writes the unit file if it does not exist yet.
func (m *Manager) ensureUnitInstalled(ctx context.Context) error {
	log := logging.FromContext(ctx)

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(unitPath); err == nil {
		return nil
	}

	execPath, err := getExecutablePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(unitPath), dirPerm); err != nil {
		return fmt.Errorf("create systemd user dir: %w", err)
	}

	content := fmt.Sprintf(unitTemplate, execPath)
	if err := os.WriteFile(unitPath, []byte(content), filePerm); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}

	log.Info().Str("path", unitPath).Msg("systemd unit installed")

	// Make the fresh unit visible to systemd.
	if out, err := m.systemctl(ctx, "--user", "daemon-reload"); err != nil {
		log.Debug().Str("output", strings.TrimSpace(string(out))).Err(err).Msg("daemon-reload failed (non-fatal)")
	}

	return nil
}

// commandError prefers the command's own output over the exec error.
func commandError(out []byte, err error) string {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return msg
	}
	return err.Error()
}
