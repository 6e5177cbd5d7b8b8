package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const metaSuffix = ".meta"

// LocalDriver stores documents on the local filesystem under BaseDir.
// The content type is kept in a sidecar file next to each object.
type LocalDriver struct {
	BaseDir string
}

func NewLocalDriver(baseDir string) (*LocalDriver, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalDriver{BaseDir: baseDir}, nil
}

func (d *LocalDriver) Name() string { return "local" }

func (d *LocalDriver) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.BaseDir, filepath.FromSlash(cleaned)), nil
}

func (d *LocalDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	target, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.WriteFile(target+metaSuffix, []byte(contentType), 0o644); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func (d *LocalDriver) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	target, err := d.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := "application/octet-stream"
	if meta, err := os.ReadFile(target + metaSuffix); err == nil && len(meta) > 0 {
		contentType = string(meta)
	}
	return f, contentType, nil
}

func (d *LocalDriver) Delete(ctx context.Context, key string) error {
	target, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := os.Remove(target + metaSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}
