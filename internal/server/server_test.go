package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacquerai/casegen/internal/dataset"
	"github.com/lacquerai/casegen/internal/profile"
	"github.com/lacquerai/casegen/internal/sampler"
	"github.com/lacquerai/casegen/internal/synth"
	_ "github.com/lacquerai/casegen/internal/testhelper"
)

type testSuite struct {
	dataPath string
	server   *Server
	http     *httptest.Server
}

// setupTestSuite writes a small dataset and serves it.
func setupTestSuite(t *testing.T, rows int, mutate ...func(*Config)) *testSuite {
	t.Helper()

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	if rows > 0 {
		p := profile.Default()
		p.Years = []profile.YearCount{{Year: 2020, Count: rows}}
		g, err := synth.NewGenerator(p)
		require.NoError(t, err)
		records, err := g.Generate(sampler.NewRand(7))
		require.NoError(t, err)
		require.NoError(t, dataset.WriteFile(dataPath, records))
	}

	config := DefaultConfig()
	config.DataPath = dataPath
	for _, m := range mutate {
		m(config)
	}

	s, err := New(config, WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &testSuite{dataPath: dataPath, server: s, http: srv}
}

func (ts *testSuite) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)

	config := DefaultConfig()
	config.StaticDir = filepath.Join(t.TempDir(), "missing")
	_, err = New(config, WithRegistry(prometheus.NewRegistry()))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	config.StaticDir = file
	_, err = New(config, WithRegistry(prometheus.NewRegistry()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGetData_RowsInColumnOrder(t *testing.T) {
	ts := setupTestSuite(t, 5)

	resp, body := ts.get(t, "/api/data")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), `[{"Case_ID":"10000","Diagnosis_Date":"2020-`), string(body))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Len(t, row, len(synth.Header))
		assert.Equal(t, []string{"10000", "10001", "10002", "10003", "10004"}[i], row["Case_ID"])
	}

	// The versioned alias serves the same payload.
	_, v1 := ts.get(t, "/api/v1/data")
	assert.Equal(t, body, v1)
}

func TestGetData_EmptyDataset(t *testing.T) {
	ts := setupTestSuite(t, 0)
	require.NoError(t, dataset.WriteFile(ts.dataPath, nil))

	resp, body := ts.get(t, "/api/data")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
}

func TestGetData_MissingFile(t *testing.T) {
	ts := setupTestSuite(t, 0)

	resp, body := ts.get(t, "/api/data")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Contains(t, payload["error"], "not found")
}

func TestGetData_UnreadableFile(t *testing.T) {
	ts := setupTestSuite(t, 0)
	// A directory opens fine but cannot be read as CSV.
	require.NoError(t, os.Mkdir(ts.dataPath, 0o755))

	resp, body := ts.get(t, "/api/data")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload["error"])
}

func TestGetData_MethodNotAllowed(t *testing.T) {
	ts := setupTestSuite(t, 1)

	resp, err := http.Post(ts.http.URL+"/api/data", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetSummary(t *testing.T) {
	ts := setupTestSuite(t, 40)

	resp, body := ts.get(t, "/api/v1/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary dataset.Summary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 40, summary.Total)
	assert.Equal(t, 40, summary.Male+summary.Female)
	require.NotNil(t, summary.TopRegion)
	assert.Equal(t, []dataset.Count{{Value: "2020", Count: 40}}, summary.ByYear)
}

func TestStreamData(t *testing.T) {
	ts := setupTestSuite(t, 12)

	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for i := 0; i < 12; i++ {
		var msg struct {
			Type  string            `json:"type"`
			Index int               `json:"index"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageRow, msg.Type)
		assert.Equal(t, i, msg.Index)
		assert.Len(t, msg.Data, len(synth.Header))
	}

	var done DoneMessage
	require.NoError(t, conn.ReadJSON(&done))
	assert.Equal(t, DoneMessage{Type: MessageDone, Rows: 12}, done)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}

func TestStreamData_MissingFile(t *testing.T) {
	ts := setupTestSuite(t, 0)

	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/v1/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamData_Paced(t *testing.T) {
	ts := setupTestSuite(t, 5, func(c *Config) { c.StreamRate = 1 })

	// The query parameter overrides the configured pace.
	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/v1/stream?rate=500"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	rows := 0
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if msg["type"] == MessageDone {
			assert.Equal(t, float64(5), msg["rows"])
			break
		}
		rows++
	}
	assert.Equal(t, 5, rows)
}

func TestStreamData_InvalidRate(t *testing.T) {
	ts := setupTestSuite(t, 1)

	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/v1/stream?rate=fast"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadData(t *testing.T) {
	ts := setupTestSuite(t, 3)

	resp, body := ts.get(t, "/datasets/data.csv")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dataset.ContentType, resp.Header.Get("Content-Type"))

	onDisk, err := os.ReadFile(ts.dataPath)
	require.NoError(t, err)
	assert.Equal(t, onDisk, body)

	resp, _ = ts.get(t, "/datasets/other.csv")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAssets(t *testing.T) {
	ts := setupTestSuite(t, 1)

	resp, body := ts.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Case Dashboard")

	resp, body = ts.get(t, "/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "api/data")

	resp, _ = ts.get(t, "/nope.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticDirOverride(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>custom</h1>"), 0o644))

	ts := setupTestSuite(t, 1, func(c *Config) { c.StaticDir = static })

	_, body := ts.get(t, "/")
	assert.Equal(t, "<h1>custom</h1>", string(body))
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestSuite(t, 1)

	resp, body := ts.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, true, health["data_available"])
}

func TestMetrics(t *testing.T) {
	ts := setupTestSuite(t, 2)
	ts.get(t, "/api/data")

	resp, body := ts.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `casegen_http_requests_total{route="/api/data",status="200"} 1`)

	disabled := setupTestSuite(t, 1, func(c *Config) { c.EnableMetrics = false })
	resp, _ = disabled.get(t, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts := setupTestSuite(t, 1)

	resp, _ := ts.get(t, "/api/data")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, ts.http.URL+"/api/data", nil)
	require.NoError(t, err)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer preflight.Body.Close()
	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)

	off := setupTestSuite(t, 1, func(c *Config) { c.EnableCORS = false })
	resp, _ = off.get(t, "/api/data")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStartAndStop(t *testing.T) {
	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = 0
	config.DataPath = filepath.Join(t.TempDir(), "data.csv")

	s, err := New(config, WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.NoError(t, s.Start())

	addr := s.GetAddr()
	assert.NotEqual(t, "127.0.0.1:0", addr)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestStartWithGracefulShutdown(t *testing.T) {
	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = 0
	config.ShutdownTimeout = time.Second

	s, err := New(config, WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.StartWithGracefulShutdown(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
