// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains network failures talking to an InfluxDB server.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category classifies a network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Unauthorized
	ServerError
)

// Classify detects the kind of failure behind err.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}
	errStr := err.Error()

	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(errStr):
		return TLS
	case isUnauthorized(errStr):
		return Unauthorized
	case isServerError(errStr):
		return ServerError
	}
	return Generic
}

// Describe renders a styled explanation of err for host, with what to check.
func Describe(err error, host string) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	title := pterm.NewStyle(pterm.FgRed, pterm.Bold)
	hint := pterm.NewStyle(pterm.FgGray)

	write := func(head string, tips ...string) {
		b.WriteString(title.Sprint(head))
		b.WriteString("\n")
		for _, t := range tips {
			b.WriteString(hint.Sprint("  • " + t))
			b.WriteString("\n")
		}
	}

	switch Classify(err) {
	case Timeout:
		write("Connection to "+host+" timed out",
			"the server may be overloaded or unreachable",
			`raise the client timeout with -a '{"timeout": 60}'`)
	case DNS:
		write("Cannot resolve "+host,
			"check the host name in the URL",
			"check DNS settings and VPN")
	case ConnectionRefused:
		write("Connection refused by "+host,
			"is InfluxDB running and listening on this port?",
			"check firewall rules")
	case TLS:
		write("Secure connection to "+host+" failed",
			"check the certificate and the system clock",
			`for self-signed certificates use -a '{"verify_ssl": false}'`)
	case Unauthorized:
		write("Not authorized by "+host,
			"check the token and its permissions for this org")
	case ServerError:
		write("InfluxDB at "+host+" reported an internal error",
			"check the server logs")
	default:
		write("Cannot reach InfluxDB at " + host)
	}

	details := err.Error()
	if len(details) > 200 {
		details = details[:200] + "..."
	}
	b.WriteString(hint.Sprint(details))
	return b.String()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) || strings.Contains(err.Error(), "no such host")
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "tls") ||
		strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate") ||
		strings.Contains(lower, "handshake")
}

func isUnauthorized(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "unauthorized") || strings.Contains(lower, "401")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
