package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"fluxcell/cli/internal/table"
)

func sample() *table.Frame {
	f := table.New("_time", "host", "_value")
	_ = f.Append(table.Row{time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "a", 1.5})
	_ = f.Append(table.Row{time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), nil, int64(2)})
	return f
}

func TestFrame_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Frame(&buf, sample(), FormatCSV); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	want := "_time,host,_value\n2024-01-01T10:00:00Z,a,1.5\n2024-01-01T11:00:00Z,,2\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFrame_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Frame(&buf, sample(), FormatJSON); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	want := `[
  {"_time": "2024-01-01T10:00:00Z", "host": "a", "_value": 1.5},
  {"_time": "2024-01-01T11:00:00Z", "host": null, "_value": 2}
]
`
	if buf.String() != want {
		t.Errorf("json =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Frame(&buf, table.New("a"), FormatJSON); err != nil {
		t.Fatalf("Frame(empty) error = %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty json = %q", buf.String())
	}
}

func TestFrame_YAML(t *testing.T) {
	f := table.New("host", "_value")
	_ = f.Append(table.Row{"a", 1.5})

	var buf bytes.Buffer
	if err := Frame(&buf, f, FormatYAML); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	want := "- host: a\n  _value: 1.5\n"
	if buf.String() != want {
		t.Errorf("yaml = %q, want %q", buf.String(), want)
	}
}

func TestFrame_Table(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	if err := Frame(&buf, sample(), FormatTable); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"_time", "host", "2024-01-01T10:00:00Z", "1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_Values(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{name: "nil", v: nil, want: ""},
		{name: "status", v: "Connected: h@o", want: "Connected: h@o\n"},
		{name: "column", v: []any{1.0, "x", nil}, want: "1\nx\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, tt.v, FormatTable); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatTable {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
