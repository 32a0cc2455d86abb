package tracker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/testutil"
	"github.com/ayoisaiah/timesheet/report"
	"github.com/ayoisaiah/timesheet/store"
)

var epoch = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// flakyDB fails every save while broken is set.
type flakyDB struct {
	store.DB
	broken bool
}

func (f *flakyDB) Save(reg *models.Registry) error {
	if f.broken {
		return store.ErrPersistence.Fmt(f.Path()).Wrap(errors.New("disk full"))
	}

	return f.DB.Save(reg)
}

type fixture struct {
	tracker *Tracker
	clock   *testutil.Clock
	db      *flakyDB
	path    string
	events  []Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock: testutil.NewClock(epoch),
		path:  filepath.Join(t.TempDir(), "timesheet.json"),
	}

	f.open(t)

	return f
}

func (f *fixture) open(t *testing.T) {
	t.Helper()

	db, err := store.NewJSONClient(f.path)
	require.NoError(t, err)

	f.db = &flakyDB{DB: db}

	f.tracker, err = New(
		f.db,
		WithClock(f.clock.Now),
		WithTimeFormat("", time.UTC),
		WithObserver(func(ev Event) {
			f.events = append(f.events, ev)
		}),
	)
	require.NoError(t, err)
}

func (f *fixture) at(d time.Duration) {
	f.clock.Set(epoch.Add(d))
}

func TestAlphaScenario(t *testing.T) {
	f := newFixture(t)

	p, err := f.tracker.Create("Alpha")
	require.NoError(t, err)
	assert.Equal(t, models.Running, p.Status)

	f.at(100 * time.Second)
	_, err = f.tracker.Pause("Alpha")
	require.NoError(t, err)

	f.at(130 * time.Second)
	_, err = f.tracker.Unpause("Alpha")
	require.NoError(t, err)

	f.at(200 * time.Second)
	p, err = f.tracker.Stop("Alpha")
	require.NoError(t, err)

	require.Len(t, p.Sessions, 1)
	assert.Equal(t, models.Stopped, p.Status)
	assert.Equal(t, 30*time.Second, p.Sessions[0].TotalPausedTime)
	assert.Equal(t, 170*time.Second, p.Sessions[0].LapTime)
	assert.Equal(t, 170*time.Second, p.TotalTime)

	ops := make([]Op, len(f.events))
	for i, ev := range f.events {
		ops[i] = ev.Op
	}

	assert.Equal(t, []Op{OpStart, OpPause, OpUnpause, OpStop}, ops)

	stop := f.events[3]
	require.NotNil(t, stop.Session)
	assert.Equal(t, 170*time.Second, stop.Session.LapTime)
	assert.Equal(t, epoch.Add(200*time.Second), stop.At)
}

func TestCreateDuplicateLeavesRegistryUnchanged(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Beta")
	require.NoError(t, err)

	before := f.tracker.Projects()

	f.at(time.Minute)
	_, err = f.tracker.Create("Beta")
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	assert.Empty(t, cmp.Diff(before, f.tracker.Projects()))
	assert.Len(t, f.events, 1)
}

func TestDeleteUnknownProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Delete("Ghost")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	_, err = f.tracker.Unpause("Alpha")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.tracker.Resume("Alpha")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.tracker.Stop("Alpha")
	require.NoError(t, err)

	before, err := f.tracker.Project("Alpha")
	require.NoError(t, err)

	for _, op := range []func(string) (models.Project, error){
		f.tracker.Stop,
		f.tracker.Pause,
		f.tracker.Unpause,
	} {
		_, err = op("Alpha")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	}

	after, err := f.tracker.Project("Alpha")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))

	_, err = f.tracker.Pause("Nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(f.path)
	require.NoError(t, err)

	before := f.tracker.Projects()

	f.db.broken = true
	f.at(time.Minute)

	_, err = f.tracker.Stop("Alpha")
	require.ErrorIs(t, err, store.ErrPersistence)

	_, err = f.tracker.Create("Beta")
	require.ErrorIs(t, err, store.ErrPersistence)

	assert.Empty(t, cmp.Diff(before, f.tracker.Projects()))
	assert.Len(t, f.events, 1)

	b, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, b)

	f.db.broken = false

	p, err := f.tracker.Stop("Alpha")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, p.TotalTime)
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	f.at(10 * time.Second)
	_, err = f.tracker.Pause("Alpha")
	require.NoError(t, err)

	_, err = f.tracker.Create("Gamma")
	require.NoError(t, err)

	want := f.tracker.Projects()

	f.open(t)

	assert.Empty(t, cmp.Diff(want, f.tracker.Projects()))
}

func TestRenamePreservesHistory(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	f.at(time.Hour)
	before, err := f.tracker.Stop("Alpha")
	require.NoError(t, err)

	_, err = f.tracker.Create("Beta")
	require.NoError(t, err)

	_, err = f.tracker.Rename("Alpha", "Beta")
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = f.tracker.Rename("Ghost", "Delta")
	require.ErrorIs(t, err, models.ErrNotFound)

	after, err := f.tracker.Rename("Alpha", "Omega")
	require.NoError(t, err)

	assert.Equal(t, "Omega", after.Name)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.TotalTime, after.TotalTime)
	assert.Empty(t, cmp.Diff(before.Sessions, after.Sessions))

	_, err = f.tracker.Project("Alpha")
	assert.ErrorIs(t, err, models.ErrNotFound)

	last := f.events[len(f.events)-1]
	assert.Equal(t, OpRename, last.Op)
	assert.Equal(t, "Alpha", last.Previous)
}

func TestDeleteRunningProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	deleted, err := f.tracker.Delete("Alpha")
	require.NoError(t, err)
	assert.Equal(t, models.Running, deleted.Status)
	assert.Empty(t, f.tracker.Projects())
}

func TestLiveElapsedFreezesWhilePaused(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	f.at(40 * time.Second)
	_, err = f.tracker.Pause("Alpha")
	require.NoError(t, err)

	for _, d := range []time.Duration{time.Minute, time.Hour, 24 * time.Hour} {
		got, err := f.tracker.LiveElapsed("Alpha", epoch.Add(d))
		require.NoError(t, err)
		assert.Equal(t, 40*time.Second, got)
	}

	_, err = f.tracker.LiveElapsed("Ghost", epoch)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestActiveAndSummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	_, err = f.tracker.Create("Beta")
	require.NoError(t, err)

	f.at(time.Hour)
	_, err = f.tracker.Stop("Beta")
	require.NoError(t, err)

	active := f.tracker.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Alpha", active[0].Name)

	f.at(2 * time.Hour)

	sum := f.tracker.Summary(report.Filter{})
	assert.Equal(t, time.Hour, sum.GrandTotal)
	assert.Equal(t, 3*time.Hour, sum.GrandLive)
}

func TestExport(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	f.at(90 * time.Minute)
	_, err = f.tracker.Stop("Alpha")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, f.tracker.Export(path, report.Filter{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(
		t,
		string(b),
		"Alpha,1,2026-10-19 09:00:00,2026-10-19 10:30:00,1h 30m 0s,1h 30m 0s,\n",
	)
}

func TestClear(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	require.NoError(t, f.tracker.Clear())
	assert.Empty(t, f.tracker.Projects())

	f.open(t)
	assert.Empty(t, f.tracker.Projects())
}

func TestImport(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	src := models.NewRegistry()
	_, err = src.Create("Beta", epoch)
	require.NoError(t, err)
	_, err = src.Create("Gamma", epoch)
	require.NoError(t, err)

	n, err := f.tracker.Import(src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.tracker.Projects(), 3)

	clash := models.NewRegistry()
	_, err = clash.Create("Delta", epoch)
	require.NoError(t, err)
	_, err = clash.Create("Alpha", epoch)
	require.NoError(t, err)

	_, err = f.tracker.Import(clash)
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = f.tracker.Project("Delta")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timesheet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	db, err := store.NewJSONClient(path)
	require.NoError(t, err)

	_, err = New(db)
	require.ErrorIs(t, err, models.ErrDataCorruption)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))

	tr, err := New(db, WithStartFresh(true))
	require.NoError(t, err)
	assert.Empty(t, tr.Projects())
	assert.FileExists(t, tr.Quarantined())
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < 50; i++ {
			f.clock.Advance(time.Second)
			_, _ = f.tracker.Pause("Alpha")
			f.clock.Advance(time.Second)
			_, _ = f.tracker.Unpause("Alpha")
		}
	}()

	for i := 0; i < 200; i++ {
		for _, p := range f.tracker.Projects() {
			assert.NoError(t, p.Validate())
		}
	}

	wg.Wait()
}

func TestBackwardsClockKeepsStoreLoadable(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Create("Alpha")
	require.NoError(t, err)

	f.at(100 * time.Second)
	_, err = f.tracker.Pause("Alpha")
	require.NoError(t, err)

	f.at(90 * time.Second)
	p, err := f.tracker.Unpause("Alpha")
	require.NoError(t, err)
	assert.Zero(t, p.Current().TotalPausedTime)

	f.at(80 * time.Second)
	p, err = f.tracker.Stop("Alpha")
	require.NoError(t, err)
	assert.Equal(t, 100*time.Second, p.TotalTime)

	f.at(50 * time.Second)
	p, err = f.tracker.Resume("Alpha")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(100*time.Second), p.Current().StartTime)

	want := f.tracker.Projects()

	f.open(t)

	assert.Empty(t, cmp.Diff(want, f.tracker.Projects()))
}

func TestPaddedStoredNameIsReachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timesheet.json")
	start := float64(epoch.Unix())
	doc := fmt.Sprintf(
		`{"projects": {"Alpha ": {"status": "Running", "total_time": 0,
		"sessions": [{"start_time": %.6f, "end_time": null, "pauses": [],
		"lap_time": 0, "total_paused_time": 0}]}}}`,
		start,
	)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	db, err := store.NewJSONClient(path)
	require.NoError(t, err)

	clock := testutil.NewClock(epoch.Add(time.Minute))

	tr, err := New(db, WithClock(clock.Now))
	require.NoError(t, err)

	p, err := tr.Stop("Alpha ")
	require.NoError(t, err)
	assert.Equal(t, "Alpha ", p.Name)
	assert.Equal(t, time.Minute, p.TotalTime)

	clash := models.NewRegistry()
	clash.Projects["Alpha "] = &models.Project{Name: "Alpha ", Status: models.Stopped}

	_, err = tr.Import(clash)
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = tr.Delete("Alpha ")
	require.NoError(t, err)
	assert.Empty(t, tr.Projects())
}
