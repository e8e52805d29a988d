package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider implements storage for local filesystem
type LocalProvider struct {
	basePath string
}

// NewLocalProvider creates a new local storage provider rooted at basePath
func NewLocalProvider(basePath string) (*LocalProvider, error) {
	if basePath == "" {
		basePath = "./data/library"
	}
	// ensure the base path exists
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalProvider{basePath: basePath}, nil
}

// resolve maps a relative object path into basePath, refusing escapes
func (l *LocalProvider) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(l.basePath, strings.TrimPrefix(clean, string(filepath.Separator))), nil
}

// Read reads a file from the local filesystem
func (l *LocalProvider) Read(ctx context.Context, path string) ([]byte, error) {
	fullPath, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Write writes through a temp file and rename so readers never observe a partial file
func (l *LocalProvider) Write(ctx context.Context, path string, data []byte) error {
	fullPath, err := l.resolve(path)
	if err != nil {
		return err
	}

	// ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Delete deletes a file from the local filesystem
func (l *LocalProvider) Delete(ctx context.Context, path string) error {
	fullPath, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists reports whether the file is present
func (l *LocalProvider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := l.Stat(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Stat returns information about a file
func (l *LocalProvider) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return &FileInfo{
		Name:         stat.Name(),
		Size:         stat.Size(),
		ContentType:  contentType(path),
		LastModified: stat.ModTime(),
	}, nil
}
