package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/vbonduro/sitelog/internal/metrics"
)

var ErrNotFound = errors.New("document not found")

const documentTableName = "documents"

var documentColumns = []string{"key", "payload", "updated_at"}

// Document is one stored JSON payload under a fixed key.
type Document struct {
	Key       string    `db:"key"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DocumentStore is a flat key-value table of whole JSON documents.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Get(ctx context.Context, key string) (*Document, error) {
	query, args, err := sq.
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc Document
	if err := sqlscan.Get(ctx, s.db, &doc, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return &doc, nil
}

// Put replaces the payload stored under key, creating it if needed.
func (s *DocumentStore) Put(ctx context.Context, key string, payload []byte) error {
	start := time.Now()
	defer func() { metrics.PersistDuration.Observe(time.Since(start).Seconds()) }()

	query, args, err := sq.
		Insert(documentTableName).
		Columns(documentColumns...).
		Values(key, payload, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate document upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(documentTableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate document delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}

func (s *DocumentStore) Keys(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("key").From(documentTableName).OrderBy("key ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keys query: %w", err)
	}

	keys := []string{}
	if err := sqlscan.Select(ctx, s.db, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list document keys: %w", err)
	}
	return keys, nil
}
