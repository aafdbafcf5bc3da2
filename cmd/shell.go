// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fluxcell/cli/internal/shell"
	"fluxcell/cli/internal/terminal"
)

var historyFile string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive Flux shell",
	Long: `Start the interactive Flux shell. This is also what running fluxcell
without a subcommand does.

Commands:
  %flux [connection] [options] [flux]   run one line
  %%flux [connection] [options]         start a cell, ended by a blank line
  %config [key=value]                   show or change settings
  %who                                  list variables

When stdin is not a terminal, commands are read from it without prompts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context(), historyFile)
	},
}

func runShell(ctx context.Context, history string) error {
	s, err := newSession(os.Stdout)
	if err != nil {
		return err
	}
	defer s.close()
	sh := s.shell(os.Stdout)

	if !terminal.IsInteractive(os.Stdin) {
		return sh.RunScript(ctx, os.Stdin)
	}

	if history == "" {
		history = s.cfg.HistoryFile
	}
	path, err := shell.HistoryPath(history)
	if err != nil {
		pterm.Warning.Printfln("history disabled: %v", err)
		path = ""
	}

	pterm.DefaultBasicText.Println(pterm.Bold.Sprint("fluxcell ") + Version +
		pterm.Gray("  (%help for commands, \\q to quit)"))
	return sh.Run(ctx, path)
}

func init() {
	shellCmd.Flags().StringVar(&historyFile, "history-file", "", "Shell history file (default $XDG_STATE_HOME/fluxcell/history)")
	rootCmd.AddCommand(shellCmd)
}
