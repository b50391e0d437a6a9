package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"bikestats/app"
	"bikestats/internal"
	"bikestats/internal/session"
	"bikestats/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, load bool) *Server {
	t.Helper()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	events, err := session.OpenEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	require.NoError(t, err)
	svc, err := app.NewAnalysisService(session.NewStore(testkit.NewGeneratedLoader(24*365)), events, app.AnalysisConfig{
		Alpha:              0.05,
		ParquetCompression: "NONE",
		ChartWidth:         320,
		ChartHeight:        240,
	}, logger)
	require.NoError(t, err)
	if load {
		_, err := svc.Reload(context.Background())
		require.NoError(t, err)
	}
	server, err := NewServer(svc, logger)
	require.NoError(t, err)
	return server
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestServer_NotLoaded(t *testing.T) {
	s := newTestServer(t, false)

	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["loaded"])

	w = do(t, s, http.MethodGet, "/api/dataset", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_LOADED", decode(t, w)["code"])

	w = do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no dataset loaded")

	w = do(t, s, http.MethodPost, "/api/dataset/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 24*365, decode(t, w)["records"])
}

func TestServer_Records(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/records?limit=2&offset=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 24*365, body["total"])
	records := body["records"].([]interface{})
	require.Len(t, records, 2)
	first := records[0].(map[string]interface{})
	assert.Equal(t, "2011-01-01T03:00:00Z", first["datetime"])
	assert.Equal(t, "Spring", first["season_label"])

	w = do(t, s, http.MethodGet, "/api/records?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Summary(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/summary/describe?measures=count,temp", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["summary"], 2)

	w = do(t, s, http.MethodGet, "/api/summary/counts/Weather", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "weather", decode(t, w)["factor"])

	w = do(t, s, http.MethodGet, "/api/summary/means/season?measure=casual", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["means"], 4)

	w = do(t, s, http.MethodGet, "/api/summary/means/colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, path := range []string{"/api/summary/correlation", "/api/summary/insights"} {
		w = do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestServer_UsersHourlyAndCrosstab(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/summary/users/workingday", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]interface{})
	require.Len(t, users, 2)
	assert.Equal(t, "No", users[0].(map[string]interface{})["level"])

	w = do(t, s, http.MethodGet, "/api/summary/users/colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/summary/hourly", "")
	require.Equal(t, http.StatusOK, w.Code)
	hourly := decode(t, w)
	assert.Len(t, hourly["rows"], 7)
	assert.Len(t, hourly["cols"], 24)

	w = do(t, s, http.MethodGet, "/api/summary/crosstab", "")
	require.Equal(t, http.StatusOK, w.Code)
	ct := decode(t, w)
	assert.Len(t, ct["rows"], 4)
	assert.Len(t, ct["cols"], 4)

	w = do(t, s, http.MethodGet, "/api/summary/crosstab?a=holiday&b=workingday", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"No", "Yes"}, decode(t, w)["rows"])

	w = do(t, s, http.MethodGet, "/api/summary/crosstab?b=colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/export/users.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "workingday,casual,registered"))
}

func TestServer_Tests(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/tests", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["tests"], 4)

	w = do(t, s, http.MethodGet, "/api/tests/season-anova?alpha=0.01", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, "multi_group_variance", result["kind"])
	assert.Equal(t, 0.01, result["alpha"])

	w = do(t, s, http.MethodGet, "/api/tests/season-anova?alpha=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/tests/moon-phase", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/tests/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Hypothesis Tests")

	w = do(t, s, http.MethodGet, "/api/tests/report?format=html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1")
	assert.Contains(t, w.Body.String(), "<table>")

	w = do(t, s, http.MethodPost, "/api/tests", `{"kind":"independence","factor_a":"workingday","factor_b":"holiday"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "independence", decode(t, w)["kind"])

	w = do(t, s, http.MethodPost, "/api/tests", `{"kind":"anova"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ExportsAndCharts(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/api/export/records.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "records.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "datetime,"))

	w = do(t, s, http.MethodGet, "/api/export/records.parquet", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAR1", w.Body.String()[:4])

	w = do(t, s, http.MethodGet, "/api/export/summary.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "measure,count,mean"))

	w = do(t, s, http.MethodGet, "/api/export/records.json", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/charts/hourly.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = do(t, s, http.MethodGet, "/api/charts/pie.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_IndexAndLogs(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "generated.csv")
	assert.Contains(t, body, "Hypothesis Tests")
	assert.Contains(t, body, "/api/charts/hourly.png")

	w = do(t, s, http.MethodGet, "/api/logs?lines=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode(t, w)
	assert.EqualValues(t, 3, logs["count"])

	w = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bikestats_dataset_loads_total")
}
