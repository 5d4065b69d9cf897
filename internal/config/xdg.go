package config

import (
	"os"
	"path/filepath"
)

const appName = "pep"

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// xdgConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func xdgConfigHome() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return configHome, nil
}

// GetConfigDir returns the XDG config directory for pep,
// $XDG_CONFIG_HOME/pep (default: ~/.config/pep).
func GetConfigDir() (string, error) {
	// Development mode: use .dev directory in current working directory
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, ".dev", appName), nil
	}

	configHome, err := xdgConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, appName), nil
}

// GetConfigFile returns the path to the configuration file.
func GetConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetSystemdUserDir returns the directory holding user systemd units,
// $XDG_CONFIG_HOME/systemd/user. Units are always resolved against the real
// XDG tree; systemd does not know about the development directory.
func GetSystemdUserDir() (string, error) {
	configHome, err := xdgConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "systemd", "user"), nil
}

// GetManDir returns the directory for user man pages,
// $XDG_DATA_HOME/man/man1 (default: ~/.local/share/man/man1).
// Pages land in the user's own tree so 'man pep' works without
// MANPATH configuration.
func GetManDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "man", "man1"), nil
}

// EnsureDirectories creates the application directories if they do not exist.
func EnsureDirectories() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, dirPerm)
}
