// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"fluxcell/cli/internal/magic"
	"fluxcell/cli/internal/xdg"
)

const historyName = "history"

// HistoryPath returns override when set, else the history file in the XDG
// state dir.
func HistoryPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := xdg.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyName), nil
}

func completer() *readline.PrefixCompleter {
	var flags []readline.PrefixCompleterInterface
	for _, f := range []string{
		"--connections", "--close", "--token", "--org", "--connection-arguments",
		"--file", "--persist", "--measurement", "--tags", "--bucket", "--debug",
	} {
		flags = append(flags, readline.PcItem(f))
	}

	var keys []readline.PrefixCompleterInterface
	for _, k := range append(magic.SettingKeys(), "format") {
		keys = append(keys, readline.PcItem(k+"="))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(cmdLine, flags...),
		readline.PcItem(cmdCell, flags...),
		readline.PcItem(cmdConfig, keys...),
		readline.PcItem(cmdWho),
		readline.PcItem(cmdDel),
		readline.PcItem(cmdHelp),
		readline.PcItem(`\q`),
		readline.PcItem("exit"),
	)
}

// filterInput disables Ctrl+Z, which would suspend the process mid-query.
func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

func (s *Shell) prompt() string {
	if s.InCell() {
		return pterm.Gray("  ...> ")
	}
	name := "flux"
	if c := s.Magic.Registry.Current(); c != nil {
		name = c.Name
	}
	return pterm.Cyan(name) + pterm.Gray("> ")
}

// Run reads commands with line editing and history until the user exits.
func (s *Shell) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              s.prompt(),
		HistoryFile:         historyFile,
		AutoComplete:        completer(),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		Stdout:              s.Out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if s.InCell() {
				s.Cancel()
				continue
			}
			fmt.Fprintln(s.Out, pterm.Gray(`(use \q to quit or Ctrl+D to exit)`))
			continue
		case errors.Is(err, io.EOF):
			s.Flush(ctx)
			return nil
		case err != nil:
			return err
		}

		if s.Handle(ctx, line) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// RunScript executes commands read from r without prompts, for piped input.
func (s *Shell) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if s.Handle(ctx, scanner.Text()) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	s.Flush(ctx)
	return scanner.Err()
}
