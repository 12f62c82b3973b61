package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"placement-readiness/internal/shared/storage/object"
)

// Store implements object.Store on the history_blobs table.
type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

// New returns a Postgres-backed blob store.
func New(db *sql.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return nil, err
	}

	const query = `SELECT payload FROM history_blobs WHERE key = $1`
	var payload []byte
	if err := s.DB.QueryRowContext(ctx, query, clean).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, object.ErrNotExist
		}
		return nil, fmt.Errorf("select blob %s: %w", clean, err)
	}
	return payload, nil
}

// Put upserts the payload stored under key.
func (s *Store) Put(ctx context.Context, key string, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return err
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	const query = `
INSERT INTO history_blobs (key, content_type, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE
SET content_type = EXCLUDED.content_type,
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`

	if _, err := s.DB.ExecContext(ctx, query, clean, contentType, data, s.now()); err != nil {
		return fmt.Errorf("upsert blob %s: %w", clean, err)
	}
	return nil
}

// Delete removes the row stored under key. A missing row is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return err
	}
	const query = `DELETE FROM history_blobs WHERE key = $1`
	if _, err := s.DB.ExecContext(ctx, query, clean); err != nil {
		return fmt.Errorf("delete blob %s: %w", clean, err)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

var _ object.Store = (*Store)(nil)
