package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/backup/local"
	"github.com/vbonduro/sitelog/internal/domain"
)

// seed fills svc with one record of every kind, including a photo and a
// subcontractor assignment.
func seed(t *testing.T, svc *SiteService) {
	t.Helper()
	ctx := context.Background()
	pid, err := svc.LoadDemo(ctx)
	require.NoError(t, err)
	sub := svc.ListSubbies()[0]
	task, err := svc.SaveTask(ctx, domain.Task{ProjectID: pid, Title: "Wire lounge", AssignedSubbieID: &sub.ID})
	require.NoError(t, err)
	_, err = svc.AttachPhotos(ctx, "tasks", task.ID, []attachment.Source{attachment.FromPath("lounge.png")})
	require.NoError(t, err)
	_, err = svc.UpdateSettings(ctx, domain.Settings{Theme: domain.ThemeLight, CompanyName: "MCB Builders", LabourRate: 95, Currency: "NZD"})
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _, _ := newTestService(t)
	seed(t, src)

	var buf bytes.Buffer
	require.NoError(t, src.WriteExport(&buf))

	dst, repo, _ := newTestService(t)
	require.NoError(t, dst.Import(context.Background(), buf.Bytes()))

	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, src.Settings(), dst.Settings())

	persisted, err := repo.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.Snapshot(), persisted)
}

func TestExportDocumentShape(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustProject(t, svc, "House")

	var buf bytes.Buffer
	require.NoError(t, svc.WriteExport(&buf))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "state")
	assert.Contains(t, doc, "settings")
	assert.JSONEq(t, `"2024-06-10T09:00:00Z"`, string(doc["exportedAt"]))
	assert.Equal(t, "sitelog-export-2024-06-10.json", svc.ExportFilename())
}

func TestImportInvalidLeavesStateUntouched(t *testing.T) {
	tests := map[string]string{
		"not json":           `{"state":`,
		"wrong section type": `{"state": "everything"}`,
		"wrong collection":   `{"state": {"projects": {"id": "p1"}}}`,
		"record without id":  `{"state": {"projects": [{"name": "House"}]}}`,
		"unknown enum":       `{"state": {"tasks": [{"id": "t1", "projectId": "p1", "status": "Someday"}]}}`,
		"negative rate":      `{"settings": {"labourRate": -5}}`,
		"unknown theme":      `{"settings": {"theme": "sepia"}}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			p := mustProject(t, svc, "House")
			before := svc.Snapshot()
			settings := svc.Settings()

			err := svc.Import(context.Background(), []byte(input))
			assert.ErrorIs(t, err, ErrImportInvalid)
			assert.Equal(t, before, svc.Snapshot())
			assert.Equal(t, settings, svc.Settings())
			_, err = svc.GetProject(p.ID)
			assert.NoError(t, err)
		})
	}
}

func TestImportMergesOverDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mustProject(t, svc, "House")
	_, err := svc.UpdateSettings(ctx, domain.Settings{CompanyName: "Old Name", LabourRate: 120})
	require.NoError(t, err)
	before := svc.Snapshot()

	// Only settings present: state is kept and missing settings keys take
	// their defaults rather than the current values.
	require.NoError(t, svc.Import(ctx, []byte(`{"settings": {"companyName": "MCB Builders"}}`)))
	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, "MCB Builders", svc.Settings().CompanyName)
	assert.Equal(t, float64(domain.DefaultLabourRate), svc.Settings().LabourRate)

	// Only some collections present: the others start empty.
	require.NoError(t, svc.Import(ctx, []byte(`{"state": {"subbies": [{"id": "s1", "name": "Sparkies"}]}}`)))
	st := svc.Snapshot()
	assert.Empty(t, st.Projects)
	require.Len(t, st.Subbies, 1)
	assert.Equal(t, "Sparkies", st.Subbies[0].Name)
	assert.NotNil(t, st.Tasks)
}

func TestBackupAndRestore(t *testing.T) {
	backups, err := local.New(t.TempDir())
	require.NoError(t, err)
	svc, _, clock := newTestService(t, WithBackups(backups))
	ctx := context.Background()
	seed(t, svc)
	want := svc.Snapshot()

	first, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sitelog-backup-20240610T090000Z.json", first)

	require.NoError(t, svc.Wipe(ctx))
	clock.t = clock.t.Add(time.Hour)
	second, err := svc.Backup(ctx)
	require.NoError(t, err)

	infos, err := svc.ListBackups(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	restored, err := svc.Restore(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, restored)
	assert.Equal(t, want, svc.Snapshot())

	restored, err = svc.Restore(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second, restored)
	assert.Equal(t, domain.NewState(), svc.Snapshot())
}

func TestBackupsDisabled(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Backup(ctx)
	assert.ErrorIs(t, err, ErrBackupsDisabled)
	_, err = svc.ListBackups(ctx)
	assert.ErrorIs(t, err, ErrBackupsDisabled)
	_, err = svc.Restore(ctx, "")
	assert.ErrorIs(t, err, ErrBackupsDisabled)
}
