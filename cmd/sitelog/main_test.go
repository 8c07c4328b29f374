package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "sitelog.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	t.Setenv("BACKUP_DRIVER", "local")
	t.Setenv("BACKUP_LOCAL_PATH", filepath.Join(dir, "backups"))
	t.Setenv("GEOCODE_ENABLED", "false")
	t.Setenv("TIMEZONE", "UTC")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"sitelog"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "sitelog %s", strings.Join(args, " "))
	return out
}

func TestIDCommand(t *testing.T) {
	out := mustRun(t, "id", "--count", "3")
	ids := strings.Fields(out)
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
}

func TestDemoReportsAndTransfer(t *testing.T) {
	dir := testEnv(t)

	out := mustRun(t, "demo")
	require.True(t, strings.HasPrefix(out, "Demo project "))
	projectID := strings.TrimSpace(strings.TrimPrefix(out, "Demo project "))

	assert.Contains(t, mustRun(t, "projects"), "14 Kowhai Road Renovation")
	assert.Contains(t, mustRun(t, "report", "invoice", "--project", projectID), "Total (ex GST):")
	assert.Contains(t, mustRun(t, "report", "job", "--project", projectID), "Job Report: 14 Kowhai Road Renovation")
	assert.Contains(t, mustRun(t, "report", "job", "--project", projectID, "--json"), `"projectName": "14 Kowhai Road Renovation"`)
	assert.Contains(t, mustRun(t, "ccc", "--project", projectID), "Pre-line")
	assert.Contains(t, mustRun(t, "geocode", "--project", projectID), "Geocoding is disabled.")

	exportPath := filepath.Join(dir, "export.json")
	mustRun(t, "export", "--out", exportPath)

	_, err := run(t, "wipe")
	require.Error(t, err)
	mustRun(t, "wipe", "--yes")
	assert.NotContains(t, mustRun(t, "projects"), "14 Kowhai Road Renovation")

	counts := mustRun(t, "import", exportPath)
	assert.Regexp(t, `projects\s+1`, counts)
	assert.Contains(t, mustRun(t, "projects"), "14 Kowhai Road Renovation")
}

func TestBackupAndRestore(t *testing.T) {
	testEnv(t)
	mustRun(t, "demo")

	out := mustRun(t, "backup")
	require.True(t, strings.HasPrefix(out, "Backed up to "))
	key := strings.TrimSpace(strings.TrimPrefix(out, "Backed up to "))
	assert.Contains(t, mustRun(t, "backups"), key)

	mustRun(t, "wipe", "--yes")
	out = mustRun(t, "restore")
	assert.Contains(t, out, "Restored "+key)
	assert.Regexp(t, `projects\s+1`, out)
}

func TestReportRequiresKnownProject(t *testing.T) {
	testEnv(t)
	_, err := run(t, "report", "job", "--project", "missing")
	assert.Error(t, err)
}

func TestReportRejectsMalformedDates(t *testing.T) {
	testEnv(t)
	out := mustRun(t, "demo")
	projectID := strings.TrimSpace(strings.TrimPrefix(out, "Demo project "))

	_, err := run(t, "report", "job", "--project", projectID, "--from", "2024-6-1")
	assert.ErrorContains(t, err, "from")
	_, err = run(t, "report", "invoice", "--project", projectID, "--to", "yesterday")
	assert.ErrorContains(t, err, "to")
}
