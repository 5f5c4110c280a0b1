package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"launchtrack/internal/logging"
)

const defaultGreptimePort = 4001

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes waypoints to GreptimeDB via the ingester client
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
	logger *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint (host or host:port). An empty
// tableName falls back to DefaultWaypointTable.
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = "public"
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{
		client: client,
		table:  waypointTable(tableName),
		logger: logging.Component(slog.Default(), "greptime"),
	}, nil
}

func waypointTable(name string) string {
	if name == "" {
		return DefaultWaypointTable
	}
	return name
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port given
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// Write inserts a single waypoint row.
func (w *GreptimeDBWriter) Write(row WaypointRow) error {
	return w.WriteBatch([]WaypointRow{row})
}

// WriteBatch inserts multiple waypoint rows.
func (w *GreptimeDBWriter) WriteBatch(rows []WaypointRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := w.buildTable(rows)
	if err != nil {
		return err
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log().Error("write failed", "table", w.table, "err", err)
		return err
	}
	w.log().Debug("wrote rows", "table", w.table, "rows", len(rows))
	return nil
}

func (w *GreptimeDBWriter) buildTable(rows []WaypointRow) (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	columns := []struct {
		name  string
		tag   bool
		dtype types.ColumnType
	}{
		{"run_id", true, types.STRING},
		{"trajectory", true, types.STRING},
		{"idx", false, types.INT64},
		{"lon", false, types.FLOAT64},
		{"lat", false, types.FLOAT64},
		{"alt", false, types.FLOAT64},
	}
	for _, c := range columns {
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.dtype)
		} else {
			err = tbl.AddFieldColumn(c.name, c.dtype)
		}
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Trajectory, int64(r.Index), r.Lon, r.Lat, r.Alt, r.Timestamp); err != nil {
			return nil, fmt.Errorf("row %s/%d: %w", r.Trajectory, r.Index, err)
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) log() *slog.Logger {
	if w.logger == nil {
		return slog.Default()
	}
	return w.logger
}
