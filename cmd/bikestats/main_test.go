package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{"BIKESTATS_CONFIG", "DATA_FILE", "ALPHA", "PARQUET_COMPRESSION", "CHART_WIDTH", "CHART_HEIGHT"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("EVENT_LOG_FILE", filepath.Join(dir, "events.jsonl"))

	path := filepath.Join(dir, "train.csv")
	_, err := run(t, "seed", "--out", path)
	require.NoError(t, err)
	return path
}

func TestCLI_TestJSON(t *testing.T) {
	data := seedFile(t)

	out, err := run(t, "--data", data, "--alpha", "0.01", "test", "--json", "workingday-ttest", "season-anova")
	require.NoError(t, err)

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "workingday-ttest", results[0]["name"])
	assert.Equal(t, 0.01, results[0]["alpha"])
}

func TestCLI_TestReportAndUnknown(t *testing.T) {
	data := seedFile(t)

	out, err := run(t, "--data", data, "test", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "# Hypothesis Tests")

	_, err = run(t, "--data", data, "test", "moon-phase")
	assert.Error(t, err)
}

func TestCLI_DeriveDescribeExportChart(t *testing.T) {
	data := seedFile(t)
	dir := filepath.Dir(data)

	out, err := run(t, "--data", data, "derive", "--head", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "season_label")

	out, err = run(t, "--data", data, "describe", "--measures", "count,temp")
	require.NoError(t, err)
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "temp")

	parquetPath := filepath.Join(dir, "out", "records.parquet")
	_, err = run(t, "--data", data, "export", "--format", "parquet", "--out", parquetPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(parquetPath)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(raw[:4]))

	_, err = run(t, "--data", data, "export", "--format", "json", "--out", filepath.Join(dir, "bad.json"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "bad.json"))

	usersPath := filepath.Join(dir, "users.csv")
	_, err = run(t, "--data", data, "export", "--table", "users", "--out", usersPath)
	require.NoError(t, err)
	raw, err = os.ReadFile(usersPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "workingday,casual,registered"))

	_, err = run(t, "--data", data, "export", "--table", "pivot", "--out", filepath.Join(dir, "pivot.csv"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "pivot.csv"))

	pngPath := filepath.Join(dir, "means.png")
	_, err = run(t, "--data", data, "chart", "means", "--factor", "weather", "--out", pngPath)
	require.NoError(t, err)
	assert.FileExists(t, pngPath)
}

func TestCLI_MissingDataFile(t *testing.T) {
	seedFile(t)
	_, err := run(t, "describe")
	assert.Error(t, err)
}
