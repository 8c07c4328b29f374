package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/sitelog/internal/domain"
)

func newTestRepository(t *testing.T) (*StateRepository, *DocumentStore) {
	docs := NewDocumentStore(openTestDB(t))
	return NewStateRepository(docs, slog.New(slog.NewTextHandler(io.Discard, nil))), docs
}

func TestLoadStateDefaultsWhenMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	s, err := repo.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), s)

	settings, err := repo.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestStateRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	s := domain.NewState()
	s.Projects = append(s.Projects, domain.Project{Meta: domain.Meta{ID: "p1"}, Name: "Kowhai Road"})
	s.Tasks = append(s.Tasks, domain.Task{Meta: domain.Meta{ID: "t1"}, ProjectID: "p1", Title: "Frame", Status: domain.TaskBlocked})
	require.NoError(t, repo.SaveState(ctx, s))

	got, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadStateUnreadableFallsBack(t *testing.T) {
	repo, docs := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, StateKey, []byte("not json")))
	require.NoError(t, docs.Put(ctx, SettingsKey, []byte(`{"theme":"purple"}`)))

	s, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), s)

	settings, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	repo, docs := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, docs.Put(ctx, SettingsKey, []byte(`{"theme":"light","labourRate":110}`)))

	settings, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, settings.Theme)
	assert.Equal(t, 110.0, settings.LabourRate)
	assert.Equal(t, domain.DefaultCompanyName, settings.CompanyName)
	assert.Equal(t, domain.DefaultCurrency, settings.Currency)
}

func TestSaveSettings(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	want := domain.Settings{Theme: domain.ThemeLight, CompanyName: "Totara Builders", LabourRate: 95, Currency: "AUD"}
	require.NoError(t, repo.SaveSettings(ctx, want))

	got, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
