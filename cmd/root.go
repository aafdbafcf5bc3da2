// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of fluxcell, an interactive
// Flux shell for InfluxDB 2.x. Without a subcommand it starts the shell.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fluxcell/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fluxcell",
	Short: "Interactive Flux shell for InfluxDB 2.x",
	Long: `fluxcell runs Flux queries against InfluxDB 2.x servers from an interactive
shell, keeping several named connections open and capturing results into
variables.

Connections are described as a URL plus token and org:

  %flux http://localhost:8086 --token my-token --org my-org

INFLUXDB_V2_URL, INFLUXDB_V2_TOKEN and INFLUXDB_V2_ORG provide defaults, and
"fluxcell connect" stores a token in the OS keychain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.EnableDebug()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("fluxcell %s\n", Version)
			return nil
		}
		return runShell(cmd.Context(), "")
	},
}

// Execute runs the CLI application.
// Interrupts cancel the command context so running queries stop.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.PrintError(os.Stderr, err, "")
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output (also "+logging.VerboseEnv+"=1)")
}
