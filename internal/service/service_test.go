package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/db"
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
	"github.com/vbonduro/sitelog/internal/store"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// testClock is a settable clock for WithClock.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

// stubPhotoReader returns one photo per source without reading anything.
type stubPhotoReader struct{}

func (stubPhotoReader) ReadAll(_ context.Context, files []attachment.Source) []domain.Photo {
	out := make([]domain.Photo, 0, len(files))
	for _, f := range files {
		out = append(out, domain.Photo{
			ID:        domain.NewID(),
			Name:      f.Name(),
			Type:      "image/png",
			Size:      4,
			DataURL:   "data:image/png;base64,AAAA",
			CreatedAt: testNow,
		})
	}
	return out
}

// failingRepo accepts loads and rejects every save.
type failingRepo struct{}

func (failingRepo) LoadState(context.Context) (domain.State, error) { return domain.NewState(), nil }
func (failingRepo) SaveState(context.Context, domain.State) error {
	return errors.New("disk full")
}
func (failingRepo) LoadSettings(context.Context) (domain.Settings, error) {
	return domain.DefaultSettings(), nil
}
func (failingRepo) SaveSettings(context.Context, domain.Settings) error {
	return errors.New("disk full")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) (*store.StateRepository, *store.DocumentStore) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	docs := store.NewDocumentStore(d)
	return store.NewStateRepository(docs, discardLogger()), docs
}

func newTestService(t *testing.T, opts ...Option) (*SiteService, *store.StateRepository, *testClock) {
	t.Helper()
	repo, _ := newTestRepo(t)
	clock := &testClock{t: testNow}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	svc := NewSiteService(repo, stubPhotoReader{}, discardLogger(), opts...)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo, clock
}

func mustProject(t *testing.T, svc *SiteService, name string) domain.Project {
	t.Helper()
	p, err := svc.SaveProject(context.Background(), domain.Project{Name: name, Address: "1 Test St"})
	require.NoError(t, err)
	return p
}

func TestSaveProjectCreatesAndPersists(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.SaveProject(ctx, domain.Project{Name: "  Kowhai Rd  "})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Kowhai Rd", p.Name)
	assert.Equal(t, testNow, p.CreatedAt)
	assert.Equal(t, testNow, p.UpdatedAt)

	reloaded := NewSiteService(repo, stubPhotoReader{}, discardLogger())
	require.NoError(t, reloaded.Load(ctx))
	got, err := reloaded.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSaveValidationLeavesStoreUntouched(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveTask(ctx, domain.Task{ProjectID: "missing", Title: "Order skip"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "projectId", verr.Field)

	_, err = svc.SaveProject(ctx, domain.Project{Name: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	assert.Empty(t, svc.Snapshot().Tasks)
	assert.Empty(t, svc.Snapshot().Projects)
	persisted, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), persisted)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	svc := NewSiteService(failingRepo{}, stubPhotoReader{}, discardLogger())

	_, err := svc.SaveProject(context.Background(), domain.Project{Name: "House"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, svc.ListProjects())
}

func TestSaveReplacesAndKeepsCreatedAt(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "House")

	clock.t = testNow.Add(time.Hour)
	p.Name = "House (stage 2)"
	updated, err := svc.SaveProject(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, testNow, updated.CreatedAt)
	assert.Equal(t, testNow.Add(time.Hour), updated.UpdatedAt)
	require.Len(t, svc.ListProjects(), 1)
	assert.Equal(t, "House (stage 2)", svc.ListProjects()[0].Name)
}

func TestSaveUnknownIDIsCreated(t *testing.T) {
	svc, _, _ := newTestService(t)

	p, err := svc.SaveProject(context.Background(), domain.Project{Meta: domain.Meta{ID: "imported-1"}, Name: "House"})
	require.NoError(t, err)
	assert.Equal(t, "imported-1", p.ID)
	assert.Equal(t, testNow, p.CreatedAt)
}

func TestNewRecordsArePrepended(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "House")

	first, err := svc.SaveTask(ctx, domain.Task{ProjectID: p.ID, Title: "First"})
	require.NoError(t, err)
	second, err := svc.SaveTask(ctx, domain.Task{ProjectID: p.ID, Title: "Second"})
	require.NoError(t, err)

	st := svc.Snapshot()
	require.Len(t, st.Tasks, 2)
	assert.Equal(t, second.ID, st.Tasks[0].ID)
	assert.Equal(t, first.ID, st.Tasks[1].ID)
	assert.Equal(t, domain.TaskToDo, st.Tasks[0].Status)
	assert.NotNil(t, st.Tasks[0].Photos)
}

func TestDeleteProjectCascades(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	a := mustProject(t, svc, "A")
	b := mustProject(t, svc, "B")
	sub, err := svc.SaveSubbie(ctx, domain.Subcontractor{Name: "Sparkies"})
	require.NoError(t, err)

	for _, p := range []domain.Project{a, b} {
		_, err = svc.SaveTask(ctx, domain.Task{ProjectID: p.ID, Title: "Task", AssignedSubbieID: &sub.ID})
		require.NoError(t, err)
		_, err = svc.SaveDiaryEntry(ctx, domain.DiaryEntry{ProjectID: p.ID, Date: "2024-06-01", Hours: "8"})
		require.NoError(t, err)
		_, err = svc.SaveVariation(ctx, domain.Variation{ProjectID: p.ID, Title: "Extra"})
		require.NoError(t, err)
		_, err = svc.SaveDelivery(ctx, domain.Delivery{ProjectID: p.ID, Supplier: "PlaceMakers"})
		require.NoError(t, err)
		_, err = svc.SaveInspection(ctx, domain.Inspection{ProjectID: p.ID, Type: "Pre-line"})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteProject(ctx, a.ID))

	st := svc.Snapshot()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, b.ID, st.Projects[0].ID)
	for _, counts := range []int{len(st.Tasks), len(st.Diary), len(st.Variations), len(st.Deliveries), len(st.Inspections)} {
		assert.Equal(t, 1, counts)
	}
	assert.Equal(t, b.ID, st.Tasks[0].ProjectID)
	assert.Len(t, st.Subbies, 1)

	err = svc.DeleteProject(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSubbieUnassignsTasks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "House")
	sub, err := svc.SaveSubbie(ctx, domain.Subcontractor{Name: "Sparkies"})
	require.NoError(t, err)
	task, err := svc.SaveTask(ctx, domain.Task{ProjectID: p.ID, Title: "Wire lounge", AssignedSubbieID: &sub.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubbie(ctx, sub.ID))

	got, err := svc.GetTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedSubbieID)
	assert.Empty(t, svc.ListSubbies())
	assert.ErrorIs(t, svc.DeleteSubbie(ctx, sub.ID), domain.ErrNotFound)
}

func TestDeleteRecordNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteTask(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDiaryEntry(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteVariation(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDelivery(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteInspection(ctx, "nope"), domain.ErrNotFound)

	_, err := svc.GetVariation("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDiaryFiltersAndOrders(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	a := mustProject(t, svc, "A")
	b := mustProject(t, svc, "B")

	for _, date := range []string{"2024-06-03", "2024-06-05", "2024-05-20"} {
		_, err := svc.SaveDiaryEntry(ctx, domain.DiaryEntry{ProjectID: a.ID, Date: date})
		require.NoError(t, err)
	}
	_, err := svc.SaveDiaryEntry(ctx, domain.DiaryEntry{ProjectID: b.ID, Date: "2024-06-04"})
	require.NoError(t, err)

	got := svc.ListDiary(query.Criteria{ProjectID: a.ID, From: "2024-06-01"})
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-05", got[0].Date)
	assert.Equal(t, "2024-06-03", got[1].Date)

	assert.Len(t, svc.ListDiary(query.Criteria{}), 4)
}

func TestListSubbiesByName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"Plumb Co", "aardvark roofing", "Sparkies"} {
		_, err := svc.SaveSubbie(ctx, domain.Subcontractor{Name: name})
		require.NoError(t, err)
	}

	got := svc.ListSubbies()
	require.Len(t, got, 3)
	assert.Equal(t, "aardvark roofing", got[0].Name)
	assert.Equal(t, "Plumb Co", got[1].Name)
	assert.Equal(t, "Sparkies", got[2].Name)
}

func TestSnapshotIsACopy(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustProject(t, svc, "House")

	st := svc.Snapshot()
	st.Projects[0].Name = "changed"
	st.Projects = nil

	require.Len(t, svc.ListProjects(), 1)
	assert.Equal(t, "House", svc.ListProjects()[0].Name)
}

func TestSettingsUpdateAndToggle(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.UpdateSettings(ctx, domain.Settings{CompanyName: "  ", LabourRate: 95, Currency: "nzd"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCompanyName, got.CompanyName)
	assert.Equal(t, "NZD", got.Currency)
	assert.Equal(t, domain.ThemeDark, got.Theme)

	_, err = svc.UpdateSettings(ctx, domain.Settings{LabourRate: -1})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, float64(95), svc.Settings().LabourRate)

	toggled, err := svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, toggled.Theme)

	persisted, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, toggled, persisted)

	toggled, err = svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, toggled.Theme)
}

func TestLoadDemoPrependsRecords(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	existing := mustProject(t, svc, "Existing")

	pid, err := svc.LoadDemo(ctx)
	require.NoError(t, err)

	st := svc.Snapshot()
	require.Len(t, st.Projects, 2)
	assert.Equal(t, pid, st.Projects[0].ID)
	assert.Equal(t, existing.ID, st.Projects[1].ID)
	assert.Equal(t, "14 Kowhai Road Renovation", st.Projects[0].Name)
	assert.True(t, st.Projects[0].HasCoords())
	assert.Len(t, st.Subbies, 1)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "2024-06-13", st.Tasks[0].DueDate)
	require.Len(t, st.Inspections, 1)
	assert.Equal(t, "2024-06-12", st.Inspections[0].Date)

	items := svc.Upcoming(0, 0)
	assert.Len(t, items, 3)

	x, err := svc.BillableExport(pid, "", "")
	require.NoError(t, err)
	assert.Equal(t, "675.00", x.Total.StringFixed(2))
}

func TestWipeKeepsSettings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.LoadDemo(ctx)
	require.NoError(t, err)
	_, err = svc.UpdateSettings(ctx, domain.Settings{CompanyName: "MCB Builders"})
	require.NoError(t, err)

	require.NoError(t, svc.Wipe(ctx))

	assert.Equal(t, domain.NewState(), svc.Snapshot())
	assert.Equal(t, "MCB Builders", svc.Settings().CompanyName)
}

func TestReportsUnknownProject(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.JobReport("nope", "", "")
	assert.Error(t, err)
	_, err = svc.Overview("nope")
	assert.Error(t, err)
	_, err = svc.CCC("nope")
	assert.Error(t, err)
	_, err = svc.SubbieUsage("nope")
	assert.Error(t, err)
	_, _, err = svc.MapLinks("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportsRejectMalformedRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := mustProject(t, svc, "Kowhai Road")

	tests := []struct {
		name      string
		from, to  string
		wantField string
	}{
		{"short month", "2024-6-1", "", "from"},
		{"not a date", "", "last week", "to"},
		{"impossible day", "2024-06-01", "2024-02-30", "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *domain.ValidationError
			_, err := svc.JobReport(p.ID, tt.from, tt.to)
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)

			_, err = svc.BillableExport(p.ID, tt.from, tt.to)
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}

	_, err := svc.JobReport(p.ID, "2024-06-01", "2024-06-10")
	assert.NoError(t, err)
}

func TestSubbieUsageAndMapLinks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "House")
	used, err := svc.SaveSubbie(ctx, domain.Subcontractor{Name: "Sparkies"})
	require.NoError(t, err)
	_, err = svc.SaveSubbie(ctx, domain.Subcontractor{Name: "Aardvark"})
	require.NoError(t, err)
	_, err = svc.SaveTask(ctx, domain.Task{ProjectID: p.ID, Title: "Wire", AssignedSubbieID: &used.ID})
	require.NoError(t, err)

	usage, err := svc.SubbieUsage(p.ID)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "Aardvark", usage[0].Name)
	assert.False(t, usage[0].Used)
	assert.True(t, usage[1].Used)

	links, ok, err := svc.MapLinks(p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, links.OSM, "search?query=1+Test+St")
}
