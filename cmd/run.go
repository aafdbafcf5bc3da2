// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fluxcell/cli/internal/render"
	"fluxcell/cli/internal/terminal"
)

// runCmd executes one %flux invocation and exits. Flag parsing is left to
// %flux itself so its options pass through untouched.
var runCmd = &cobra.Command{
	Use:   "run [connection] [%flux options] [flux]",
	Short: "Run one %flux command",
	Long: `Run one %flux command and print the result. Arguments form the %flux line;
when stdin is piped it is read as the cell body.

  fluxcell run http://localhost:8086 -t my-token -o my-org 'buckets()'
  echo 'from(bucket: "b") |> range(start: -1h)' | fluxcell run -o my-org`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
			return cmd.Help()
		}

		body := ""
		if !terminal.IsInteractive(os.Stdin) {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			body = string(b)
		}

		s, err := newSession(os.Stdout)
		if err != nil {
			return err
		}
		defer s.close()
		// a one-shot run has no shell to inspect errors later
		s.magic.Settings.ShortErrors = false

		v, err := s.magic.Execute(cmd.Context(), quoteArgs(args), body)
		if err != nil {
			return err
		}
		return render.Render(os.Stdout, v, s.cfg.OutputFormat())
	},
}

// switchFlags are the %flux options that take no value.
var switchFlags = map[string]bool{"-l": true, "--connections": true, "--debug": true}

// quoteArgs rebuilds a %flux line from shell arguments. Option values the
// shell kept together, like a JSON object, are quoted again; query text is
// joined as is so its own quoting reaches Flux unchanged.
func quoteArgs(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		prev := ""
		if i > 0 {
			prev = args[i-1]
		}
		if !strings.HasPrefix(prev, "-") || strings.Contains(prev, "=") || switchFlags[prev] {
			continue
		}
		if strings.ContainsAny(a, " \t\n") {
			if strings.Contains(a, "'") {
				out[i] = `"` + a + `"`
			} else {
				out[i] = "'" + a + "'"
			}
		}
	}
	return strings.Join(out, " ")
}

func init() {
	rootCmd.AddCommand(runCmd)
}
