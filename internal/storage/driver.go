// Package storage holds the binary stores behind document uploads.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Driver defines how documents are written to and read from binary storage
type Driver interface {
	// Save writes the content under key
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Open streams the content back with its content type
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	Delete(ctx context.Context, key string) error

	// Name identifies the driver in stored metadata, e.g. "local" or "s3"
	Name() string
}

// CleanKey normalizes a slash separated key and refuses keys escaping the root
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(strings.ReplaceAll(key, "\\", "/"), "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
