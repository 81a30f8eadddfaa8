//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aevon-lab/salesboard/internal/cache"
	"github.com/aevon-lab/salesboard/internal/core/aggregation"
	"github.com/aevon-lab/salesboard/internal/core/storage/sqlstore"
	"github.com/aevon-lab/salesboard/internal/migrations"
	"github.com/aevon-lab/salesboard/internal/report"
	"github.com/aevon-lab/salesboard/internal/server"
	"github.com/aevon-lab/salesboard/internal/source"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type integrationHarness struct {
	baseURL    string
	client     *http.Client
	db         *sql.DB
	manager    *cache.Manager
	cancel     context.CancelFunc
	serverDone chan error
	adapter    *sqlstore.Adapter
}

type harnessPaths struct {
	sourceRoot   string
	dbPath       string
	snapshotPath string
}

func newHarnessPaths(t *testing.T) harnessPaths {
	t.Helper()
	dir := t.TempDir()
	return harnessPaths{
		sourceRoot:   filepath.Join(dir, "sales"),
		dbPath:       filepath.Join(dir, "db", "salesboard.db"),
		snapshotPath: filepath.Join(dir, "cache", "snapshot.pb"),
	}
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}

	require.NoError(t, h.adapter.Close())
}

// startHarness wires the full stack the way cmd/salesboard does, on a
// SQLite file database.
func startHarness(t *testing.T, paths harnessPaths) *integrationHarness {
	t.Helper()

	adapter, err := sqlstore.NewAdapter(sqlstore.DriverSQLite, paths.dbPath, 1, 1)
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(adapter.DB(), adapter.Driver(), true))
	require.NoError(t, adapter.ValidateSchema(context.Background()))

	dir := source.NewDirectory(paths.sourceRoot, nil)
	manager := cache.NewManager(dir, adapter, cache.Options{
		TTL:          time.Hour,
		Workers:      2,
		SnapshotPath: paths.snapshotPath,
	})
	_, err = manager.RestoreSnapshot(context.Background())
	require.NoError(t, err)

	engine := aggregation.NewEngine(aggregation.DefaultLimits(), aggregation.NewBranchTable(
		aggregation.Branch{Name: "서울지사", Managers: []string{"김철수"}},
	))
	summaries := cache.NewSummaryCache(16, time.Hour)
	manager.OnRefresh(summaries.Clear)
	reportSvc := report.NewService(manager, engine, summaries)

	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))
	httpServer := server.New(addr, adapter, "release", time.Second)
	reportSvc.RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		db:         adapter.DB(),
		manager:    manager,
		cancel:     cancel,
		serverDone: serverDone,
		adapter:    adapter,
	}
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func getJSON(t *testing.T, client *http.Client, endpoint string, out interface{}) int {
	t.Helper()

	resp, err := client.Get(endpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func post(t *testing.T, client *http.Client, endpoint string) int {
	t.Helper()

	resp, err := client.Post(endpoint, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

// writeWorkbook builds an .xlsx fixture with rows written from A1.
func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	wb := excelize.NewFile()
	defer wb.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, wb.SaveAs(path))
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setMTime pins the modification time of path so change detection does not
// depend on file system timestamp granularity.
func setMTime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func countRows(t *testing.T, db *sql.DB, dataset string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM source_rows WHERE dataset_key = ?`, dataset).Scan(&n))
	return n
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
