// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package persist writes a captured result table back into an InfluxDB bucket.
package persist

import (
	"context"
	"fmt"
	"strings"

	"fluxcell/cli/internal/connection"
	ferrors "fluxcell/cli/internal/errors"
	"fluxcell/cli/internal/table"
)

// Lookup returns a namespace variable by name.
type Lookup func(name string) (any, bool)

// Request describes one persist operation.
type Request struct {
	// Name is the namespace variable holding the table.
	Name   string
	Bucket string
	// Measurement defaults to the lowercased Name.
	Measurement string
	// Tags is a comma-separated list of columns stored as tags.
	Tags string
}

// Persist writes the table stored under req.Name to req.Bucket on conn.
func Persist(ctx context.Context, conn *connection.Connection, lookup Lookup, req Request) (string, error) {
	if req.Bucket == "" {
		return "", ferrors.New(ferrors.Persist, "--bucket parameter is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", ferrors.New(ferrors.Persist,
			"format: %flux [connection] --persist <table_name> --bucket <bucket>")
	}

	value, ok := lookup(name)
	if !ok {
		return "", ferrors.Newf(ferrors.Persist, "%s is not a table", name)
	}
	frame, ok := value.(*table.Frame)
	if !ok {
		return "", ferrors.Newf(ferrors.Persist, "%s is not a table", name)
	}

	measurement := req.Measurement
	if measurement == "" {
		measurement = strings.ToLower(name)
	}

	if err := conn.Session.Write(ctx, req.Bucket, measurement, frame, splitTags(req.Tags)); err != nil {
		return "", ferrors.Wrap(ferrors.Persist, fmt.Sprintf("writing %s to bucket %s", name, req.Bucket), err)
	}
	return "Persisted " + name, nil
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
