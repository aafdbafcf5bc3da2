package influx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fluxcell/cli/internal/connection"
	"fluxcell/cli/internal/credentials"
	"fluxcell/cli/internal/table"
)

const annotatedCSV = `#datatype,string,long,dateTime:RFC3339,double,string
#group,false,false,false,false,true
#default,_result,,,,
,result,table,_time,_value,host
,,0,2024-01-01T10:00:00Z,1.5,a

#datatype,string,long,dateTime:RFC3339,double,string,string
#group,false,false,false,false,true,true
#default,_result,,,,,
,result,table,_time,_value,host,region
,,1,2024-01-01T11:00:00Z,2.5,b,eu

`

type fakeServer struct {
	health string
	writes []string
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		code := http.StatusOK
		if f.health != "pass" {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_, _ = io.WriteString(w, `{"name":"influxdb","message":"ready","status":"`+f.health+`","checks":[]}`)
	})
	mux.HandleFunc("/api/v2/query", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("org"); got != "my-org" {
			t.Errorf("query org = %q, want my-org", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, annotatedCSV)
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.writes = append(f.writes, string(body))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func dialTest(t *testing.T, srv *httptest.Server) connection.Session {
	t.Helper()
	s, err := Dial(context.Background(), connection.Request{
		Credentials: credentials.Credentials{URL: srv.URL, Token: "secret", Org: "my-org"},
	})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSession_Health(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{status: "pass", wantErr: false},
		{status: "fail", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			fs := &fakeServer{health: tt.status}
			srv := httptest.NewServer(fs.handler(t))
			defer srv.Close()

			err := dialTest(t, srv).Health(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Health() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSession_Query(t *testing.T) {
	fs := &fakeServer{health: "pass"}
	srv := httptest.NewServer(fs.handler(t))
	defer srv.Close()

	frame, err := dialTest(t, srv).Query(context.Background(), `from(bucket: "b") |> range(start: -1h)`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	wantCols := []string{"result", "table", "_time", "_value", "host", "region"}
	if strings.Join(frame.Columns, ",") != strings.Join(wantCols, ",") {
		t.Fatalf("Columns = %v, want %v", frame.Columns, wantCols)
	}
	if frame.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", frame.Len())
	}
	if v, _ := frame.Value(1, "_value"); v != 2.5 {
		t.Errorf("_value[1] = %v, want 2.5", v)
	}
	if v, _ := frame.Value(0, "region"); v != nil {
		t.Errorf("region[0] = %v, want nil for a column the first table lacks", v)
	}
	if v, _ := frame.Value(0, "_time"); !v.(time.Time).Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("_time[0] = %v", v)
	}
}

func TestSession_Write(t *testing.T) {
	fs := &fakeServer{health: "pass"}
	srv := httptest.NewServer(fs.handler(t))
	defer srv.Close()

	f := table.New("_time", "host", "usage")
	_ = f.Append(table.Row{time.Unix(0, 1000), "a", 0.5})

	if err := dialTest(t, srv).Write(context.Background(), "b", "cpu", f, []string{"host"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(fs.writes) != 1 {
		t.Fatalf("got %d write requests, want 1", len(fs.writes))
	}
	if !strings.Contains(fs.writes[0], "cpu,host=a usage=0.5 1000") {
		t.Errorf("write body = %q", fs.writes[0])
	}
}
