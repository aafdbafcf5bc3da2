// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"

	"github.com/pterm/pterm"
)

// QueryErrorType represents the category of an error returned by the query API
type QueryErrorType int

const (
	QueryErrorUnknown QueryErrorType = iota
	QueryErrorSyntax
	QueryErrorAuth
	QueryErrorNotFound
	QueryErrorTimeout
	QueryErrorUnavailable
)

// ParseQueryError categorizes a query error message
func ParseQueryError(errMsg string) QueryErrorType {
	lower := strings.ToLower(errMsg)

	if strings.Contains(lower, "compilation failed") || strings.Contains(lower, "error @") ||
		strings.Contains(lower, "expected") || strings.Contains(lower, "undefined identifier") {
		return QueryErrorSyntax
	}
	if strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "401") {
		return QueryErrorAuth
	}
	if strings.Contains(lower, "not found") {
		return QueryErrorNotFound
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return QueryErrorTimeout
	}
	if strings.Contains(lower, "unavailable") || strings.Contains(lower, "connection refused") {
		return QueryErrorUnavailable
	}

	return QueryErrorUnknown
}

// FormatQueryError renders a query error for short-error mode: one styled
// line of explanation and the original message.
func FormatQueryError(errMsg string) string {
	var b strings.Builder

	switch ParseQueryError(errMsg) {
	case QueryErrorSyntax:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Flux error"))
	case QueryErrorAuth:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Not authorized"))
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(" (check the token and its read permissions)"))
	case QueryErrorNotFound:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Not found"))
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(" (check bucket and org names)"))
	case QueryErrorTimeout:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Timed out"))
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(" (raise it with -a '{\"timeout\": 60}')"))
	case QueryErrorUnavailable:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Server unavailable"))
	default:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Query failed"))
	}

	if msg := strings.TrimSpace(errMsg); msg != "" {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint(Mask(msg)))
	}
	return b.String()
}
