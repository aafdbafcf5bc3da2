// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"os"

	"github.com/pterm/pterm"
)

// VerboseEnv enables debug output when set to "1".
const VerboseEnv = "FLUXCELL_VERBOSE"

func init() {
	if os.Getenv(VerboseEnv) == "1" {
		pterm.EnableDebugMessages()
	}
}

// EnableDebug turns on debug output for the rest of the process.
func EnableDebug() {
	pterm.EnableDebugMessages()
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return pterm.PrintDebugMessages
}

// Debugf prints a masked debug line when debug output is on.
func Debugf(format string, args ...any) {
	if !pterm.PrintDebugMessages {
		return
	}
	pterm.Debug.Println(Mask(pterm.Sprintf(format, args...)))
}
