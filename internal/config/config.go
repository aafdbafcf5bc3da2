// Package config loads and stores fluxcell settings in the XDG config dir.
// Only non-secret settings are kept here; tokens go to the OS keychain.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"fluxcell/cli/internal/magic"
	"fluxcell/cli/internal/render"
	"fluxcell/cli/internal/xdg"
)

// FileName is the config file inside the config dir.
const FileName = "config.toml"

// Config holds non-sensitive settings.
type Config struct {
	DisplayCon      bool   `toml:"display_con"`
	ShortErrors     bool   `toml:"short_errors"`
	ColumnLocalVars bool   `toml:"column_local_vars"`
	Feedback        bool   `toml:"feedback"`
	Format          string `toml:"format"`
	// HistoryFile overrides the shell history location.
	HistoryFile string `toml:"history_file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	s := magic.DefaultSettings()
	return Config{
		DisplayCon:      s.DisplayCon,
		ShortErrors:     s.ShortErrors,
		ColumnLocalVars: s.ColumnLocalVars,
		Feedback:        s.Feedback,
		Format:          string(render.FormatTable),
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration; missing file returns defaults. Keys absent from
// the file keep their default values.
func Load() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	if _, err := toml.DecodeFile(p, &c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("reading %s: %w", p, err)
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		return c, fmt.Errorf("%s: %w", p, err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Settings returns the %flux settings part of the configuration.
func (c Config) Settings() magic.Settings {
	return magic.Settings{
		DisplayCon:      c.DisplayCon,
		ShortErrors:     c.ShortErrors,
		ColumnLocalVars: c.ColumnLocalVars,
		Feedback:        c.Feedback,
	}
}

// ApplySettings copies %flux settings back into the configuration.
func (c *Config) ApplySettings(s magic.Settings) {
	c.DisplayCon = s.DisplayCon
	c.ShortErrors = s.ShortErrors
	c.ColumnLocalVars = s.ColumnLocalVars
	c.Feedback = s.Feedback
}

// OutputFormat returns the configured render format, table when invalid.
func (c Config) OutputFormat() render.Format {
	f, err := render.ParseFormat(c.Format)
	if err != nil {
		return render.FormatTable
	}
	return f
}
