// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render prints %flux results in the configured output format.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"fluxcell/cli/internal/table"
)

// Format selects how frames are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// ParseFormat validates a format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (use table, csv, json or yaml)", s)
}

// Render writes v to w. Frames use format; column values captured into
// variables print one per line; anything else prints as is.
func Render(w io.Writer, v any, format Format) error {
	switch val := v.(type) {
	case nil:
		return nil
	case *table.Frame:
		return Frame(w, val, format)
	case []any:
		for _, item := range val {
			if _, err := fmt.Fprintln(w, cellText(item)); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, val)
		return err
	}
}

// Frame writes f in the given format.
func Frame(w io.Writer, f *table.Frame, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, f)
	case FormatJSON:
		return writeJSON(w, f)
	case FormatYAML:
		return writeYAML(w, f)
	default:
		return writeTable(w, f)
	}
}

func writeTable(w io.Writer, f *table.Frame) error {
	if len(f.Columns) == 0 {
		_, err := fmt.Fprintln(w, "(no columns)")
		return err
	}
	data := pterm.TableData{append([]string(nil), f.Columns...)}
	for _, row := range f.Rows {
		data = append(data, rowText(row))
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeCSV(w io.Writer, f *table.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}
	for _, row := range f.Rows {
		if err := cw.Write(rowText(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON emits an array of objects whose keys keep column order.
func writeJSON(w io.Writer, f *table.Frame) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for r, row := range f.Rows {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for i, c := range f.Columns {
			if i > 0 {
				buf.WriteString(", ")
			}
			k, err := json.Marshal(c)
			if err != nil {
				return err
			}
			v, err := json.Marshal(row[i])
			if err != nil {
				return fmt.Errorf("column %s: %w", c, err)
			}
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
		}
		buf.WriteString("}")
	}
	if len(f.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// writeYAML emits a sequence of mappings whose keys keep column order.
func writeYAML(w io.Writer, f *table.Frame) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range f.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, c := range f.Columns {
			var val yaml.Node
			if err := val.Encode(row[i]); err != nil {
				return fmt.Errorf("column %s: %w", c, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c}, &val)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func rowText(row table.Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellText(v)
	}
	return out
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
