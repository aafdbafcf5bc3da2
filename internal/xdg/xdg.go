// Package xdg resolves XDG Base Directory paths for fluxcell.
// It falls back to the traditional locations under the home directory when
// the XDG variables are unset, and creates directories private to the user.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "fluxcell"

// ConfigDir returns the XDG config directory for fluxcell.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/fluxcell when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for fluxcell, where the shell
// keeps its history. It falls back to ~/.local/state/fluxcell.
func StateDir() (string, error) {
	return appDir("XDG_STATE_HOME", ".local", "state")
}

func appDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
