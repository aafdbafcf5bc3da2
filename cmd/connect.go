// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fluxcell/cli/internal/connection"
	"fluxcell/cli/internal/credentials"
	"fluxcell/cli/internal/dsn"
	"fluxcell/cli/internal/httperrors"
	"fluxcell/cli/internal/influx"
	"fluxcell/cli/internal/keychain"
	"fluxcell/cli/internal/logging"
	"fluxcell/cli/internal/terminal"
)

var (
	connectURL string
	connectOrg string
)

// connectCmd verifies an InfluxDB endpoint and stores its token in the OS
// keychain, so later %flux calls only need the URL and org.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Verify an InfluxDB server and save its token",
	Long: `The connect command prompts for an InfluxDB URL, organization and API token,
checks that the server is healthy and that the token can query the org, and
stores the token in the OS keychain.

Stored tokens are used when neither --token nor INFLUXDB_V2_TOKEN is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := terminal.NewPrompter(os.Stdin)

		url := connectURL
		if url == "" {
			url = os.Getenv(credentials.EnvURL)
		}
		if url == "" {
			var err error
			if url, err = p.Line("InfluxDB URL (e.g., http://localhost:8086): "); err != nil {
				return err
			}
		}
		normalized, err := dsn.ParseAndNormalize(url)
		if err != nil {
			return err
		}

		org := connectOrg
		if org == "" {
			org = os.Getenv(credentials.EnvOrg)
		}
		if org == "" {
			if org, err = p.Line("Organization: "); err != nil {
				return err
			}
		}

		prompt := "API token: "
		token, err := p.Secret(prompt)
		if err != nil {
			return err
		}
		if terminal.IsInteractive(os.Stdin) {
			terminal.ClearPreviousLines(len(prompt))
		}
		if token == "" || org == "" {
			return errors.New("organization and token are required")
		}

		creds := credentials.Credentials{URL: normalized, Token: token, Org: org}
		if err := verify(cmd.Context(), creds); err != nil {
			pterm.Println(httperrors.Describe(err, httperrors.ExtractHostFromURL(normalized)))
			return errors.New("connection not saved")
		}

		km, err := keychain.GetManager()
		if err != nil {
			pterm.Warning.Println("Secure storage is not available on this system; connection verified but token not saved.")
			return err
		}
		if err := km.SaveToken(normalized, token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("InfluxDB connection")).
			WithPadding(1).
			Println(fmt.Sprintf("URL:   %s\nOrg:   %s\nToken: %s", normalized, org, logging.MaskToken(token)))
		pterm.Println()
		pterm.Println("Token saved to the OS keychain. In the shell, connect with:")
		pterm.Println(pterm.Cyan(fmt.Sprintf("  %%flux %s --org %s", normalized, org)))
		return nil
	},
}

// verify checks health and runs a trivial query so a token without read
// access is caught here rather than on the first real query.
func verify(ctx context.Context, creds credentials.Credentials) error {
	stop := startAreaSpinner("verifying connection")
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	s, err := influx.Dial(ctx, connection.Request{Credentials: creds})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Health(ctx); err != nil {
		return err
	}
	if _, err := s.Query(ctx, `buckets() |> limit(n: 1)`); err != nil {
		return err
	}
	return nil
}

func init() {
	connectCmd.Flags().StringVar(&connectURL, "url", "", "InfluxDB URL (default $"+credentials.EnvURL+")")
	connectCmd.Flags().StringVarP(&connectOrg, "org", "o", "", "Organization (default $"+credentials.EnvOrg+")")
	rootCmd.AddCommand(connectCmd)
}
