// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fluxcell/cli/internal/keychain"
)

// logoutCmd removes stored tokens from the OS keychain.
var logoutCmd = &cobra.Command{
	Use:   "logout [url]",
	Short: "Remove saved InfluxDB tokens",
	Long: `The logout command removes the token saved by "fluxcell connect" for one URL,
or every saved token when no URL is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			if err := km.DeleteToken(args[0]); err != nil {
				return err
			}
			pterm.Println(fmt.Sprintf("✅ Token for %s removed", args[0]))
			return nil
		}

		n, err := km.ClearTokens()
		if err != nil {
			return err
		}
		pterm.Println(fmt.Sprintf("✅ %d saved token(s) removed", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
