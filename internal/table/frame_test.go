package table

import (
	"reflect"
	"testing"
)

func TestFrame_AppendRecord(t *testing.T) {
	f := New()
	f.AppendRecord([]string{"_time", "_value"}, map[string]any{"_time": "t1", "_value": 1.5})
	f.AppendRecord([]string{"_time", "_value", "host"}, map[string]any{"_time": "t2", "_value": 2.5, "host": "a"})

	if got, want := f.Columns, []string{"_time", "_value", "host"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns = %v, want %v", got, want)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}

	hosts, ok := f.Column("host")
	if !ok {
		t.Fatal("host column missing")
	}
	if !reflect.DeepEqual(hosts, []any{nil, "a"}) {
		t.Errorf("host column = %v, want [nil a]", hosts)
	}

	v, ok := f.Value(1, "_value")
	if !ok || v != 2.5 {
		t.Errorf("Value(1, _value) = %v, %v", v, ok)
	}
	if _, ok := f.Value(5, "_value"); ok {
		t.Error("Value out of range should report false")
	}
}

func TestFrame_Append(t *testing.T) {
	f := New("a", "b")
	if err := f.Append(Row{1, 2}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := f.Append(Row{1}); err == nil {
		t.Error("expected width mismatch error")
	}
	f.AddColumn("a")
	if len(f.Columns) != 2 {
		t.Errorf("adding an existing column changed the frame: %v", f.Columns)
	}
}

func TestFrame_Map(t *testing.T) {
	f := New("x", "y")
	_ = f.Append(Row{1, "one"})
	_ = f.Append(Row{2, "two"})

	want := map[string][]any{
		"x": {1, 2},
		"y": {"one", "two"},
	}
	if got := f.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestFrame_Literal(t *testing.T) {
	f := &Frame{Columns: []string{"a"}, Rows: []Row{{1}}}
	col, ok := f.Column("a")
	if !ok || !reflect.DeepEqual(col, []any{1}) {
		t.Errorf("Column(a) on a literal frame = %v, %v", col, ok)
	}
}

func TestFrame_Empty(t *testing.T) {
	var nilFrame *Frame
	if !nilFrame.Empty() {
		t.Error("nil frame should be empty")
	}
	if !New("a").Empty() {
		t.Error("new frame should be empty")
	}
	if got := New("a", "b").String(); got != "<table 0 rows x 2 columns>" {
		t.Errorf("String() = %q", got)
	}
}
