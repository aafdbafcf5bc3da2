// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and validates InfluxDB endpoint URLs such as
// http://localhost:8086 or https://us-east-1-1.aws.cloud2.influxdata.com.
package dsn

import (
	"net/url"
	"regexp"
	"strings"
)

const formatHint = "use http://host:port or https://host, e.g. http://localhost:8086"

var rePort = regexp.MustCompile(`^\d+$`)

// DetectScheme detects the transport of an endpoint string.
func DetectScheme(endpoint string) Scheme {
	lower := strings.ToLower(strings.TrimSpace(endpoint))

	if strings.HasPrefix(lower, "https://") {
		return SchemeHTTPS
	}
	if strings.HasPrefix(lower, "http://") {
		return SchemeHTTP
	}
	return SchemeUnknown
}

// Parse parses an endpoint URL and returns its parts.
func Parse(endpoint string) (*EndpointInfo, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, NewParseError(endpoint, "empty endpoint", formatHint)
	}

	scheme := DetectScheme(endpoint)
	if scheme == SchemeUnknown {
		return nil, NewParseError(endpoint, "missing or unsupported scheme", formatHint)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, NewParseError(endpoint, err.Error(), formatHint)
	}

	info := &EndpointInfo{
		Scheme:   scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Path:     strings.TrimRight(u.Path, "/"),
		Original: endpoint,
	}

	if info.Host == "" {
		return nil, NewParseError(endpoint, "missing host", formatHint)
	}
	// url.Parse accepts "host:" with an empty port, and keeps bad ports verbatim
	// inside u.Host when they are not numeric on some inputs.
	if strings.HasSuffix(u.Host, ":") {
		return nil, NewParseError(endpoint, "empty port", "port must be numeric")
	}
	if info.Port != "" && !rePort.MatchString(info.Port) {
		return nil, NewParseError(endpoint, "invalid port number: "+info.Port, "port must be numeric")
	}
	if u.User != nil {
		return nil, NewParseError(endpoint, "credentials in URL are not supported", "pass the token with --token or INFLUXDB_V2_TOKEN")
	}

	return info, nil
}

// Normalize converts endpoint info into the URL handed to the client:
// lower-case scheme and host, no trailing slash, no query.
func Normalize(info *EndpointInfo) (string, error) {
	if info == nil {
		return "", NewParseError("", "nil endpoint info", "")
	}

	var b strings.Builder
	b.WriteString(string(info.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(info.Host))
	if info.Port != "" {
		b.WriteString(":")
		b.WriteString(info.Port)
	}
	b.WriteString(info.Path)
	return b.String(), nil
}

// Validate checks an endpoint without normalizing it.
func Validate(endpoint string) error {
	_, err := Parse(endpoint)
	return err
}

// ParseAndNormalize is Parse followed by Normalize.
func ParseAndNormalize(endpoint string) (string, error) {
	info, err := Parse(endpoint)
	if err != nil {
		return "", err
	}
	return Normalize(info)
}
