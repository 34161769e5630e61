package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned when a stored calendar does not exist.
var ErrNotFound = errors.New("stored file not found")

// Store persists exported calendars under a relative name.
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// cleanName rejects names escaping the store root.
func cleanName(name string) (string, error) {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if name == "" {
		return "", errors.New("file name is required")
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", errors.New("file name must not leave the storage directory")
		}
	}
	return name, nil
}
