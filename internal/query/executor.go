// Package query runs a Flux payload on an established connection.
// Results come back as a table.Frame; a blank payload short-circuits into a
// status string naming the connection, which is how a bare "%flux <url>"
// reports that it connected.
package query

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fluxcell/cli/internal/connection"
	"fluxcell/cli/internal/logging"
	"fluxcell/cli/internal/table"
)

// Options controls side output of Run.
type Options struct {
	// Feedback prints a notice when a query returns no rows.
	Feedback bool
	// Out receives the notice. Nil discards it.
	Out io.Writer
}

// Result is either a frame or, for a blank payload, a status line.
type Result struct {
	Frame  *table.Frame
	Status string
}

// Value returns whichever of Frame and Status is set.
func (r Result) Value() any {
	if r.Frame != nil {
		return r.Frame
	}
	return r.Status
}

// Run submits flux on conn. Errors from the session are returned as is.
func Run(ctx context.Context, conn *connection.Connection, flux string, opts Options) (Result, error) {
	if strings.TrimSpace(flux) == "" {
		return Result{Status: "Connected: " + conn.Name}, nil
	}

	logging.Debugf("query: running on %s:\n%s", conn.Name, flux)
	frame, err := conn.Session.Query(ctx, flux)
	if err != nil {
		return Result{}, err
	}
	if frame == nil {
		frame = table.New()
	}

	if frame.Empty() && opts.Feedback && opts.Out != nil {
		fmt.Fprintln(opts.Out, interpretRowCount(frame.Len()))
	}
	return Result{Frame: frame}, nil
}

func interpretRowCount(n int) string {
	if n < 0 {
		return "Done."
	}
	return fmt.Sprintf("%d rows affected.", n)
}
