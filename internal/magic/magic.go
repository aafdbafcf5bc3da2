// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package magic implements the %flux command: option parsing, connection
// selection, persisting tables and running Flux, with results captured into a
// Namespace.
//
// Line mode passes only the line; cell mode passes the first line as line and
// the rest as body:
//
//	%flux http://localhost:8086 -t my-token -o my-org
//	%%flux cpu <<
//	from(bucket: "telegraf") |> range(start: -1h)
package magic

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fluxcell/cli/internal/cell"
	"fluxcell/cli/internal/connection"
	ferrors "fluxcell/cli/internal/errors"
	"fluxcell/cli/internal/httperrors"
	"fluxcell/cli/internal/logging"
	"fluxcell/cli/internal/persist"
	"fluxcell/cli/internal/query"
	"fluxcell/cli/internal/table"
)

// Magic runs %flux commands against a registry.
type Magic struct {
	Registry  *connection.Registry
	Namespace *Namespace
	Settings  Settings
	// Out receives notices and short errors.
	Out io.Writer

	// ReadFile loads --file. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
	// Split parses command text. Defaults to cell.Split.
	Split func(text string) cell.Parsed
}

// New creates a Magic with its own namespace.
func New(reg *connection.Registry, settings Settings, out io.Writer) *Magic {
	return &Magic{
		Registry:  reg,
		Namespace: NewNamespace(),
		Settings:  settings,
		Out:       out,
	}
}

// Execute runs one %flux invocation. It returns the value to display, which
// is nil when the result went into a variable or an error was already
// printed.
func (m *Magic) Execute(ctx context.Context, line, body string) (any, error) {
	a, err := parseArgs(line)
	if err != nil {
		return nil, err
	}

	if a.connections {
		return m.Registry.ListFormatted(), nil
	}
	if a.close != "" {
		return nil, m.Registry.Close(a.close)
	}

	text := strings.Join(a.line, " ") + "\n" + body
	if a.file != "" {
		content, err := m.readFile(a.file)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.Configuration, "cannot read "+a.file, err)
		}
		text = string(content) + "\n" + text
	}

	parsed := m.split(text)

	connArgs, err := a.connectionArguments()
	if err != nil {
		return nil, err
	}
	conn, err := m.Registry.ResolveOrCreate(ctx, parsed.Connection, connection.Options{
		Token:     a.token,
		Org:       a.org,
		Arguments: connArgs,
		Debug:     a.debug,
	})
	if err != nil {
		m.reportConnectError(err, parsed.Connection)
		return nil, nil
	}
	if parsed.Connection == "" && m.Settings.DisplayCon {
		fmt.Fprintln(m.Out, m.Registry.ListFormatted())
	}

	if a.persist != "" || a.bucket != "" {
		msg, err := persist.Persist(ctx, conn, m.Namespace.Get, persist.Request{
			Name:        a.persist,
			Bucket:      a.bucket,
			Measurement: a.measurement,
			Tags:        a.tags,
		})
		if err != nil {
			return nil, err
		}
		return msg, nil
	}

	res, err := query.Run(ctx, conn, parsed.Flux, query.Options{Feedback: m.Settings.Feedback, Out: m.Out})
	if err != nil {
		if m.Settings.ShortErrors {
			fmt.Fprintln(m.Out, logging.FormatQueryError(err.Error()))
			return nil, nil
		}
		return nil, ferrors.Wrap(ferrors.Query, "", err)
	}

	if res.Frame != nil && m.Settings.ColumnLocalVars {
		m.storeColumns(res.Frame)
		return nil, nil
	}

	if parsed.ResultVar != "" {
		m.Namespace.Set(parsed.ResultVar, res.Value())
		fmt.Fprintf(m.Out, "Returning data to local variable %s\n", parsed.ResultVar)
		return nil, nil
	}

	m.Namespace.Set(LastResult, res.Value())
	return res.Value(), nil
}

// reportConnectError prints why no connection could be used. Unreachable
// servers get a network diagnosis, everything else the expected format.
func (m *Magic) reportConnectError(err error, descriptor string) {
	if ferrors.IsKind(err, ferrors.Network) {
		host := httperrors.ExtractHostFromURL(descriptor)
		fmt.Fprintln(m.Out, logging.Mask(httperrors.Describe(err, host)))
		return
	}
	logging.PrintError(m.Out, err, m.Registry.TellFormat())
}

func (m *Magic) storeColumns(f *table.Frame) {
	for _, c := range f.Columns {
		values, _ := f.Column(c)
		m.Namespace.Set(c, values)
	}
	if m.Settings.Feedback {
		fmt.Fprintf(m.Out, "Returning data to local variables [%s]\n", strings.Join(f.Columns, ", "))
	}
}

func (m *Magic) readFile(name string) ([]byte, error) {
	if m.ReadFile != nil {
		return m.ReadFile(name)
	}
	return os.ReadFile(name)
}

func (m *Magic) split(text string) cell.Parsed {
	if m.Split != nil {
		return m.Split(text)
	}
	return cell.Split(text)
}
