package app_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/timesheet/app"
	"github.com/ayoisaiah/timesheet/internal/config"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/report"
	"github.com/ayoisaiah/timesheet/store"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "timesheet-app")
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	os.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	xdg.Reload()

	config.Stdin = strings.NewReader("")

	code := m.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
}

// run executes the CLI against the store at dbPath and returns what was
// written to config.Stdout.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	orig := config.Stdout
	config.Stdout = &out

	t.Cleanup(func() {
		config.Stdout = orig
	})

	argv := append([]string{"timesheet", "--no-color", "--db", dbPath}, args...)

	err := app.Get().Run(argv)

	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()

	out, err := run(t, dbPath, args...)
	require.NoError(t, err, "timesheet %s", strings.Join(args, " "))

	return out
}

func load(t *testing.T, driver, path string) *models.Registry {
	t.Helper()

	db, err := store.Open(driver, path)
	require.NoError(t, err)

	defer db.Close()

	reg, err := db.Load()
	require.NoError(t, err)

	return reg
}

func TestLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "pause", "Alpha")
	mustRun(t, dbPath, "unpause", "Alpha")
	mustRun(t, dbPath, "stop", "Alpha")
	mustRun(t, dbPath, "resume", "Alpha")

	reg := load(t, store.DriverJSON, dbPath)

	p, err := reg.Get("Alpha")
	require.NoError(t, err)

	assert.Equal(t, models.Running, p.Status)
	require.Len(t, p.Sessions, 2)
	assert.Len(t, p.Sessions[0].Pauses, 1)
	assert.False(t, p.Sessions[0].Open())
	assert.True(t, p.Sessions[1].Open())
	assert.Equal(t, p.Sessions[0].LapTime, p.TotalTime)
}

func TestInvalidTransition(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")

	_, err := run(t, dbPath, "resume", "Alpha")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = run(t, dbPath, "start", "Alpha")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = run(t, dbPath, "pause", "Ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMissingArguments(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	cases := [][]string{
		{"start"},
		{"rename", "Alpha"},
		{"sessions"},
		{"export"},
		{"stop", "Alpha", "Beta"},
	}

	for _, args := range cases {
		_, err := run(t, dbPath, args...)
		assert.Error(t, err, "timesheet %s", strings.Join(args, " "))
	}

	_, statErr := os.Stat(dbPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRename(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "rename", "Alpha", "Beta")

	reg := load(t, store.DriverJSON, dbPath)

	_, err := reg.Get("Alpha")
	assert.ErrorIs(t, err, models.ErrNotFound)

	p, err := reg.Get("Beta")
	require.NoError(t, err)
	assert.Equal(t, models.Running, p.Status)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")

	_, err := run(t, dbPath, "delete", "Alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	assert.Equal(t, 1, load(t, store.DriverJSON, dbPath).Len())

	mustRun(t, dbPath, "delete", "--force", "Alpha")

	assert.Equal(t, 0, load(t, store.DriverJSON, dbPath).Len())
}

func TestClear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "start", "Beta")
	mustRun(t, dbPath, "clear", "-f")

	assert.Equal(t, 0, load(t, store.DriverJSON, dbPath).Len())
}

func TestListJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Beta")
	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "stop", "Alpha")

	out := mustRun(t, dbPath, "list", "--json")

	var projects []struct {
		Name     string `json:"name"`
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 2)

	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, string(models.Stopped), projects[0].Status)
	assert.Equal(t, "Beta", projects[1].Name)
	assert.Equal(t, string(models.Running), projects[1].Status)
	assert.Equal(t, 1, projects[1].Sessions)
}

func TestListTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")

	out := mustRun(t, dbPath, "list")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Total")

	out = mustRun(t, dbPath, "status")
	assert.Contains(t, out, "Alpha")

	mustRun(t, dbPath, "pause", "Alpha")

	out = mustRun(t, dbPath, "status")
	assert.Contains(t, out, "(Paused)")

	out = mustRun(t, dbPath, "sessions", "Alpha")
	assert.Contains(t, out, "Paused")
}

func TestReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "stop", "Alpha")

	out := mustRun(t, dbPath, "report", "--json", "--period", "today")

	var sum struct {
		Projects []struct {
			Name     string `json:"name"`
			Sessions int    `json:"sessions"`
		} `json:"projects"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.Len(t, sum.Projects, 1)
	assert.Equal(t, 1, sum.Projects[0].Sessions)

	out = mustRun(t, dbPath, "report", "--json", "--until", "2000-01-01")

	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.Len(t, sum.Projects, 1)
	assert.Equal(t, 0, sum.Projects[0].Sessions)
}

func TestReportInvalidFilter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	_, err := run(t, dbPath, "report", "--period", "fortnight")
	assert.Error(t, err)

	_, err = run(
		t,
		dbPath,
		"report",
		"--since",
		"2025-02-01",
		"--until",
		"2025-01-01",
	)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "timesheet.json")
	csvPath := filepath.Join(dir, "out", "report.csv")

	mustRun(t, dbPath, "start", "Alpha")
	mustRun(t, dbPath, "pause", "Alpha")
	mustRun(t, dbPath, "export", csvPath)

	f, err := os.Open(csvPath)
	require.NoError(t, err)

	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, report.Header, records[0])
	assert.Equal(t, "Alpha", records[1][0])
	assert.Equal(t, report.OpenSessionText, records[1][3])
	assert.Contains(t, records[1][6], report.OngoingPauseText)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "old.json")
	dbPath := filepath.Join(dir, "timesheet.db")

	src := models.NewRegistry()

	_, err := src.Create("Legacy", timeutil.Now())
	require.NoError(t, err)

	db, err := store.Open(store.DriverJSON, srcPath)
	require.NoError(t, err)
	require.NoError(t, db.Save(src))
	require.NoError(t, db.Close())

	mustRun(t, dbPath, "--store", "bolt", "import", srcPath)

	// imports never overwrite
	_, err = run(t, dbPath, "--store", "bolt", "import", srcPath)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	reg := load(t, store.DriverBolt, dbPath)

	p, err := reg.Get("Legacy")
	require.NoError(t, err)
	assert.Equal(t, models.Running, p.Status)

	_, err = run(t, dbPath, "import", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCorruptStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.json")

	require.NoError(t, os.WriteFile(dbPath, []byte("{not json"), 0o600))

	_, err := run(t, dbPath, "list")
	assert.ErrorIs(t, err, models.ErrDataCorruption)

	b, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))

	mustRun(t, dbPath, "--start-fresh", "start", "Alpha")

	assert.Equal(t, 1, load(t, store.DriverJSON, dbPath).Len())
}

func TestSQLiteDriver(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timesheet.sqlite")

	mustRun(t, dbPath, "--store", "sqlite", "start", "Alpha")
	mustRun(t, dbPath, "--store", "sqlite", "stop", "Alpha")

	reg := load(t, store.DriverSQLite, dbPath)

	p, err := reg.Get("Alpha")
	require.NoError(t, err)
	assert.Equal(t, models.Stopped, p.Status)
}
