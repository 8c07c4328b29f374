package backup

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 30, 5, 0, time.FixedZone("NZST", 12*3600))
	key := NewKey(at)
	assert.Equal(t, "sitelog-backup-20240531T223005Z.json", key)
	assert.True(t, IsKey(key))
	assert.False(t, IsKey("notes.json"))
	assert.False(t, IsKey("sitelog-backup-yesterday.json"))
}

type listOnly []Info

func (l listOnly) Put(context.Context, string, io.Reader) error        { return nil }
func (l listOnly) Get(context.Context, string) (io.ReadCloser, error) { return nil, ErrNotFound }
func (l listOnly) List(context.Context) ([]Info, error)               { return l, nil }
func (l listOnly) Delete(context.Context, string) error               { return nil }

func TestLatest(t *testing.T) {
	store := listOnly{
		{Key: NewKey(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))},
		{Key: "zzz-unrelated.json"},
		{Key: NewKey(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))},
	}
	key, err := Latest(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "sitelog-backup-20240602"))

	_, err = Latest(context.Background(), listOnly{})
	assert.ErrorIs(t, err, ErrNotFound)
}
