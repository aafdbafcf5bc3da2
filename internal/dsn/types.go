// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import "fmt"

// Scheme is the transport an InfluxDB endpoint is served over.
type Scheme string

const (
	SchemeHTTP    Scheme = "http"
	SchemeHTTPS   Scheme = "https"
	SchemeUnknown Scheme = "unknown"
)

// EndpointInfo contains parsed information from an endpoint URL.
type EndpointInfo struct {
	Scheme   Scheme
	Host     string
	Port     string
	Path     string
	Original string
}

// String returns the endpoint as originally given.
func (e *EndpointInfo) String() string {
	return e.Original
}

// ParseError represents an error that occurred during endpoint parsing
type ParseError struct {
	Endpoint string
	Reason   string
	Hint     string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid endpoint: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid endpoint: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(endpoint, reason, hint string) *ParseError {
	return &ParseError{
		Endpoint: endpoint,
		Reason:   reason,
		Hint:     hint,
	}
}
