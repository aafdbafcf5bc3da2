// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking InfluxDB tokens in messages, debug output
// gated by --debug or FLUXCELL_VERBOSE, and formatting errors for display.
//
// Tokens travel on the command line (--token), in the environment and in
// Authorization headers echoed by the client in debug mode, so everything that
// reaches the terminal goes through Mask first.
package logging

import (
	"regexp"
	"strings"
)

var (
	reTokenFlag = regexp.MustCompile(`(--token[= ]|-t )("[^"]*"|'[^']*'|\S+)`)
	reTokenKV   = regexp.MustCompile(`(?i)(token=|token:\s*)([^\s;&"]+)`)
	reAuthHdr   = regexp.MustCompile(`(?i)(authorization:\s*(?:token|bearer)\s+|\btoken\s+)([A-Za-z0-9._\-=+/]{8,})`)
	reURLCreds  = regexp.MustCompile(`(://)([^:/@\s]+):([^@\s/]*[^@\s/0-9][^@\s/]*)(@)`) // host:port@org is a connection name, not credentials
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = reTokenFlag.ReplaceAllString(out, "$1***")
	out = reTokenKV.ReplaceAllString(out, "$1***")
	out = reAuthHdr.ReplaceAllString(out, "$1***")
	out = reURLCreds.ReplaceAllString(out, "$1*:*$4")
	out = strings.ReplaceAll(out, "INFLUXDB_V2_TOKEN=", "INFLUXDB_V2_TOKEN=***")
	return out
}

// MaskToken shortens a token to its first four characters for display.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***"
}
