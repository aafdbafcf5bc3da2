// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package influx is the InfluxDB 2.x side of a connection. It wraps the
// official Go client behind connection.Session.
package influx

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/domain"

	"fluxcell/cli/internal/connection"
	"fluxcell/cli/internal/logging"
	"fluxcell/cli/internal/table"
)

// Session is a connection.Session over influxdb2.Client.
type Session struct {
	client influxdb2.Client
	org    string
	url    string
}

var _ connection.Session = (*Session)(nil)

// Dial builds a client for req. No request is sent until the first call.
func Dial(_ context.Context, req connection.Request) (connection.Session, error) {
	opts, err := BuildOptions(req.Arguments, req.Debug)
	if err != nil {
		return nil, err
	}
	creds := req.Credentials
	logging.Debugf("influx: new client for %s (org %s)", creds.URL, creds.Org)
	return &Session{
		client: influxdb2.NewClientWithOptions(creds.URL, creds.Token, opts),
		org:    creds.Org,
		url:    creds.URL,
	}, nil
}

// Health fails unless GET /health reports pass.
func (s *Session) Health(ctx context.Context) error {
	check, err := s.client.Health(ctx)
	if err != nil {
		return err
	}
	if check.Status != domain.HealthCheckStatusPass {
		msg := ""
		if check.Message != nil {
			msg = ": " + *check.Message
		}
		return fmt.Errorf("server %s is not healthy (status %s)%s", s.url, check.Status, msg)
	}
	return nil
}

// Query runs flux and concatenates every table of the result. Columns keep
// the order in which they are first seen.
func (s *Session) Query(ctx context.Context, flux string) (*table.Frame, error) {
	result, err := s.client.QueryAPI(s.org).Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	frame := table.New()
	var columns []string
	for result.Next() {
		if result.TableChanged() || columns == nil {
			cols := result.TableMetadata().Columns()
			columns = make([]string, len(cols))
			for i, c := range cols {
				columns[i] = c.Name()
			}
		}
		frame.AppendRecord(columns, result.Record().Values())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	logging.Debugf("influx: query returned %d rows", frame.Len())
	return frame, nil
}

// Write stores frame rows as points of measurement in bucket.
func (s *Session) Write(ctx context.Context, bucket, measurement string, frame *table.Frame, tagColumns []string) error {
	points, err := FramePoints(frame, measurement, tagColumns, time.Now())
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	logging.Debugf("influx: writing %d points to %s/%s", len(points), bucket, measurement)
	return s.client.WriteAPIBlocking(s.org, bucket).WritePoint(ctx, points...)
}

// Close releases the client.
func (s *Session) Close() {
	s.client.Close()
}
