package object

import (
	"context"
	"errors"
	"path"
	"strings"
)

var (
	// ErrNotExist is returned by Get when nothing is stored under the key.
	ErrNotExist = errors.New("object does not exist")
	// ErrInvalidKey is returned for empty or traversing keys.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Store persists opaque blobs by key. Every write replaces the whole blob.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// CleanKey normalizes key and rejects absolute or traversing keys.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if trimmed == "" || strings.HasPrefix(trimmed, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(trimmed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
