// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"fluxcell/cli/internal/config"
	"fluxcell/cli/internal/connection"
	"fluxcell/cli/internal/credentials"
	"fluxcell/cli/internal/influx"
	"fluxcell/cli/internal/keychain"
	"fluxcell/cli/internal/magic"
	"fluxcell/cli/internal/render"
	"fluxcell/cli/internal/shell"
)

// session wires configuration, the connection registry and the %flux
// command for one process.
type session struct {
	cfg      config.Config
	registry *connection.Registry
	magic    *magic.Magic
}

func newSession(out io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	registry := connection.NewRegistry(influx.Dial, credentials.NewResolver(keychain.Store{}))
	return &session{
		cfg:      cfg,
		registry: registry,
		magic:    magic.New(registry, cfg.Settings(), out),
	}, nil
}

func (s *session) shell(out io.Writer) *shell.Shell {
	sh := shell.New(s.magic, s.cfg.OutputFormat(), out)
	sh.SaveSettings = func(st magic.Settings, f render.Format) error {
		s.cfg.ApplySettings(st)
		s.cfg.Format = string(f)
		return config.Save(s.cfg)
	}
	return sh
}

func (s *session) close() {
	s.registry.CloseAll()
}
