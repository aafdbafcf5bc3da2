// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// PrintError writes a masked, red error line followed by an optional hint.
func PrintError(w io.Writer, err error, hint string) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, pterm.NewStyle(pterm.FgRed).Sprint(Mask(err.Error())))
	if hint != "" {
		fmt.Fprintln(w, pterm.NewStyle(pterm.FgGray).Sprint(Mask(hint)))
	}
}
