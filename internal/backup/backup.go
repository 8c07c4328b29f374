package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var ErrNotFound = errors.New("backup not found")

const (
	keyPrefix = "sitelog-backup-"
	keySuffix = ".json"
	keyLayout = "20060102T150405Z"
)

// Info describes one stored backup.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Store keeps export documents somewhere other than the main database.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, key string) error
}

// NewKey names a backup taken at t. Keys sort chronologically.
func NewKey(t time.Time) string {
	return keyPrefix + t.UTC().Format(keyLayout) + keySuffix
}

// IsKey reports whether key was produced by NewKey.
func IsKey(key string) bool {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
		return false
	}
	_, err := time.Parse(keyLayout, strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), keySuffix))
	return err == nil
}

// Latest returns the key of the most recent backup in store.
func Latest(ctx context.Context, store Store) (string, error) {
	infos, err := store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list backups: %w", err)
	}
	latest := ""
	for _, info := range infos {
		if IsKey(info.Key) && info.Key > latest {
			latest = info.Key
		}
	}
	if latest == "" {
		return "", ErrNotFound
	}
	return latest, nil
}
