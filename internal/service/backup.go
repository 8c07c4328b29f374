package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vbonduro/sitelog/internal/backup"
)

var ErrBackupsDisabled = errors.New("backups are not configured")

// Backup writes the export document to the backup store and returns its key.
func (s *SiteService) Backup(ctx context.Context) (string, error) {
	if s.backups == nil {
		return "", ErrBackupsDisabled
	}
	var buf bytes.Buffer
	if err := s.WriteExport(&buf); err != nil {
		return "", err
	}
	key := backup.NewKey(s.timestamp())
	if err := s.backups.Put(ctx, key, &buf); err != nil {
		return "", fmt.Errorf("failed to store backup: %w", err)
	}
	s.logger.Info("backup stored", "key", key, "size", buf.Len())
	return key, nil
}

func (s *SiteService) ListBackups(ctx context.Context) ([]backup.Info, error) {
	if s.backups == nil {
		return nil, ErrBackupsDisabled
	}
	return s.backups.List(ctx)
}

// Restore imports a stored backup. An empty key restores the most recent
// one. The restored key is returned.
func (s *SiteService) Restore(ctx context.Context, key string) (string, error) {
	if s.backups == nil {
		return "", ErrBackupsDisabled
	}
	if key == "" {
		latest, err := backup.Latest(ctx, s.backups)
		if err != nil {
			return "", err
		}
		key = latest
	}

	rc, err := s.backups.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to open backup %q: %w", key, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read backup %q: %w", key, err)
	}
	if err := s.Import(ctx, data); err != nil {
		return "", err
	}
	s.logger.Info("backup restored", "key", key)
	return key, nil
}
