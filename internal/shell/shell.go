// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package shell is the interactive front end of fluxcell. It reads lines,
// dispatches %flux, %%flux and the helper commands, and renders results.
//
// Cell mode starts with a %%flux line and collects the following lines until
// a blank one:
//
//	flux> %%flux http://localhost:8086 cpu <<
//	  ...> from(bucket: "telegraf")
//	  ...>   |> range(start: -5m)
//	  ...>
package shell

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pterm/pterm"

	ferrors "fluxcell/cli/internal/errors"
	"fluxcell/cli/internal/logging"
	"fluxcell/cli/internal/magic"
	"fluxcell/cli/internal/render"
)

// Shell commands.
const (
	cmdLine   = "%flux"
	cmdCell   = "%%flux"
	cmdConfig = "%config"
	cmdWho    = "%who"
	cmdDel    = "%del"
	cmdHelp   = "%help"
)

var exitCommands = map[string]bool{`\q`: true, "exit": true, "quit": true}

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Shell holds the state of one interactive session.
type Shell struct {
	Magic  *magic.Magic
	Format render.Format
	Out    io.Writer
	// SaveSettings persists changes made with %config. Nil keeps them in
	// memory only.
	SaveSettings func(magic.Settings, render.Format) error

	cell *pendingCell
}

type pendingCell struct {
	line string
	body []string
}

// New creates a shell around m.
func New(m *magic.Magic, format render.Format, out io.Writer) *Shell {
	return &Shell{Magic: m, Format: format, Out: out}
}

// InCell reports whether a %%flux cell is being collected.
func (s *Shell) InCell() bool { return s.cell != nil }

// Handle processes one input line and reports whether the shell should exit.
func (s *Shell) Handle(ctx context.Context, line string) bool {
	if s.cell != nil {
		if strings.TrimSpace(line) != "" {
			s.cell.body = append(s.cell.body, line)
			return false
		}
		s.Flush(ctx)
		return false
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	if exitCommands[input] {
		return true
	}

	cmd, rest := splitCommand(input)
	switch cmd {
	case cmdCell:
		s.cell = &pendingCell{line: rest}
	case cmdLine:
		s.execute(ctx, rest, "")
	case cmdConfig:
		s.config(rest)
	case cmdWho:
		s.who()
	case cmdDel:
		s.del(rest)
	case cmdHelp, "help", `\?`:
		s.help()
	default:
		if strings.HasPrefix(cmd, "%") {
			logging.PrintError(s.Out, fmt.Errorf("unknown command %s", cmd), "type %help for the list of commands")
			return false
		}
		if v, ok := s.Magic.Namespace.Get(input); ok && reIdent.MatchString(input) {
			s.show(v)
			return false
		}
		s.execute(ctx, "", input)
	}
	return false
}

// Flush runs a pending %%flux cell, if any.
func (s *Shell) Flush(ctx context.Context) {
	if s.cell == nil {
		return
	}
	c := s.cell
	s.cell = nil
	s.execute(ctx, c.line, strings.Join(c.body, "\n"))
}

// Cancel drops a pending cell.
func (s *Shell) Cancel() { s.cell = nil }

func (s *Shell) execute(ctx context.Context, line, body string) {
	v, err := s.Magic.Execute(ctx, line, body)
	if err != nil {
		hint := ""
		if ferrors.IsKind(err, ferrors.Configuration) {
			hint = "type %help for usage"
		}
		logging.PrintError(s.Out, err, hint)
		return
	}
	s.show(v)
}

func (s *Shell) show(v any) {
	if err := render.Render(s.Out, v, s.Format); err != nil {
		logging.PrintError(s.Out, err, "")
	}
}

// config shows all settings or changes one: %config key=value.
func (s *Shell) config(arg string) {
	if arg == "" {
		fmt.Fprintln(s.Out, s.Magic.Settings.String())
		fmt.Fprintf(s.Out, "format = %s\n", s.Format)
		return
	}

	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		key, value, ok = strings.Cut(arg, " ")
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || key == "" {
		logging.PrintError(s.Out, fmt.Errorf("cannot parse %q", arg), "usage: %config <key>=<value>")
		return
	}

	if key == "format" {
		f, err := render.ParseFormat(value)
		if err != nil {
			logging.PrintError(s.Out, err, "")
			return
		}
		s.Format = f
	} else if err := s.Magic.Settings.Set(key, value); err != nil {
		logging.PrintError(s.Out, err, "")
		return
	}

	if s.SaveSettings != nil {
		if err := s.SaveSettings(s.Magic.Settings, s.Format); err != nil {
			logging.PrintError(s.Out, err, "setting applied for this session only")
		}
	}
}

func (s *Shell) who() {
	names := s.Magic.Namespace.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.Out, "Interactive namespace is empty.")
		return
	}
	fmt.Fprintln(s.Out, strings.Join(names, "\t"))
}

func (s *Shell) del(arg string) {
	for _, name := range strings.Fields(arg) {
		s.Magic.Namespace.Delete(name)
	}
}

func (s *Shell) help() {
	fmt.Fprintln(s.Out, magic.Usage())
	pterm.Fprintln(s.Out, pterm.Gray(`Shell commands:
  %config [key=value]   show or change settings (`+strings.Join(magic.SettingKeys(), ", ")+`, format)
  %who                  list variables
  %del NAME...          delete variables
  NAME                  show a variable
  \q, exit, quit        leave`))
}

// splitCommand separates the leading command word from its arguments.
func splitCommand(input string) (string, string) {
	i := strings.IndexFunc(input, unicode.IsSpace)
	if i < 0 {
		return input, ""
	}
	return input[:i], strings.TrimSpace(input[i:])
}
