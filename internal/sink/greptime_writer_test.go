package sink

import (
	"context"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
)

type mockGreptimeClient struct {
	table *table.Table
	calls int
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.calls++
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "waypoints"}

	if err := w.WriteBatch(sampleRows()); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	want := []string{"run_id", "trajectory", "idx", "lon", "lat", "alt", "ts"}
	if len(schema) != len(want) {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	for i, name := range want {
		if schema[i].ColumnName != name {
			t.Fatalf("column %d = %s, want %s", i, schema[i].ColumnName, name)
		}
	}

	rows := m.table.GetRows().Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Values[0].GetStringValue(); got != "r1" {
		t.Fatalf("run_id = %s, want r1", got)
	}
	if got := rows[1].Values[4].GetF64Value(); got != 5 {
		t.Fatalf("lat = %v, want 5", got)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "waypoints"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("expected no client calls, got %d", m.calls)
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
	}{
		{"localhost", "localhost", 4001},
		{"db.local:4002", "db.local", 4002},
	}
	for _, tc := range cases {
		host, port, err := splitEndpoint(tc.in)
		if err != nil {
			t.Fatalf("splitEndpoint(%q): %v", tc.in, err)
		}
		if host != tc.host || port != tc.port {
			t.Errorf("splitEndpoint(%q) = %s:%d, want %s:%d", tc.in, host, port, tc.host, tc.port)
		}
	}
	if _, _, err := splitEndpoint("db:abc"); err == nil {
		t.Errorf("expected error for non-numeric port")
	}
}

func TestWaypointTable(t *testing.T) {
	if got := waypointTable(""); got != "trajectory_waypoints" {
		t.Errorf("waypointTable(\"\") = %q", got)
	}
	if got := waypointTable("launches"); got != "launches" {
		t.Errorf("waypointTable(\"launches\") = %q", got)
	}
}
