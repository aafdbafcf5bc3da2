// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credentials assembles the url, token and org of an InfluxDB
// connection from explicit arguments, the process environment and, for the
// token only, the OS keychain.
//
// Precedence is explicit > environment > keychain. Validation runs in a fixed
// order (url, token, org) so the first missing field is always the one named.
package credentials

import (
	"os"
	"strings"

	"fluxcell/cli/internal/dsn"
	ferrors "fluxcell/cli/internal/errors"
	"fluxcell/cli/internal/logging"
)

// Environment variables consulted when a field is not given explicitly.
const (
	EnvURL   = "INFLUXDB_V2_URL"
	EnvToken = "INFLUXDB_V2_TOKEN"
	EnvOrg   = "INFLUXDB_V2_ORG"
)

// Credentials identify one InfluxDB session.
type Credentials struct {
	URL   string
	Token string
	Org   string
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// TokenStore returns a previously saved token for an endpoint.
type TokenStore interface {
	LoadToken(endpoint string) (string, error)
}

// Resolver fills credential gaps. The zero value reads the process environment
// and has no keychain fallback.
type Resolver struct {
	Lookup LookupFunc
	Tokens TokenStore
}

// NewResolver creates a resolver over the process environment.
func NewResolver(tokens TokenStore) *Resolver {
	return &Resolver{Lookup: os.LookupEnv, Tokens: tokens}
}

func (r *Resolver) env(key string) string {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

// EndpointFromEnv returns INFLUXDB_V2_URL, or "" when unset.
func (r *Resolver) EndpointFromEnv() string {
	return r.env(EnvURL)
}

// Resolve fills empty fields of explicit and validates the result.
func (r *Resolver) Resolve(explicit Credentials) (Credentials, error) {
	c := Credentials{
		URL:   strings.TrimSpace(explicit.URL),
		Token: strings.TrimSpace(explicit.Token),
		Org:   strings.TrimSpace(explicit.Org),
	}

	if c.URL == "" {
		c.URL = r.env(EnvURL)
	}
	if c.Token == "" {
		c.Token = r.env(EnvToken)
	}
	if c.Org == "" {
		c.Org = r.env(EnvOrg)
	}
	if c.Token == "" && c.URL != "" && r.Tokens != nil {
		if t, err := r.Tokens.LoadToken(c.URL); err == nil {
			c.Token = strings.TrimSpace(t)
		} else {
			logging.Debugf("credentials: no keychain token for %s: %v", c.URL, err)
		}
	}

	if c.URL == "" {
		return c, missing("url")
	}
	if err := dsn.Validate(c.URL); err != nil {
		return c, ferrors.Wrap(ferrors.Configuration, "url not usable", err)
	}
	if c.Token == "" {
		return c, missing("token")
	}
	if c.Org == "" {
		return c, missing("org")
	}
	return c, nil
}

func missing(field string) error {
	return ferrors.New(ferrors.Configuration, field+" not set")
}
