package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSProvider implements storage for Google Cloud Storage
type GCSProvider struct {
	client *storage.Client
	bucket string
}

// NewGCSProvider creates a new GCS storage provider
func NewGCSProvider(ctx context.Context, bucketName string) (*GCSProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSProvider{
		client: client,
		bucket: bucketName,
	}, nil
}

// Read downloads an object from Google Cloud Storage
func (g *GCSProvider) Read(ctx context.Context, path string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}
	return data, nil
}

// Write uploads data to Google Cloud Storage, replacing any existing object
func (g *GCSProvider) Write(ctx context.Context, path string, data []byte) error {
	writer := g.client.Bucket(g.bucket).Object(path).NewWriter(ctx)
	writer.ContentType = contentType(path)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write GCS object: %w", err)
	}

	// close the writer to finalize the upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Delete deletes a file from Google Cloud Storage
func (g *GCSProvider) Delete(ctx context.Context, path string) error {
	err := g.client.Bucket(g.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object from GCS: %w", err)
	}
	return nil
}

// Exists reports whether the object is present
func (g *GCSProvider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := g.Stat(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Stat returns information about a file in GCS
func (g *GCSProvider) Stat(ctx context.Context, path string) (*FileInfo, error) {
	attrs, err := g.client.Bucket(g.bucket).Object(path).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object attributes: %w", err)
	}

	return &FileInfo{
		Name:         attrs.Name,
		Size:         attrs.Size,
		ContentType:  attrs.ContentType,
		LastModified: attrs.Updated,
	}, nil
}

// Close closes the GCS client
func (g *GCSProvider) Close() error {
	return g.client.Close()
}
