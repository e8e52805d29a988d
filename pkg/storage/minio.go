package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"moviehub/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioProvider implements the Provider interface using MinIO
type minioProvider struct {
	client *minio.Client
	bucket string
}

// NewMinIOProvider creates a new MinIO storage provider and makes sure its bucket exists
func NewMinIOProvider(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (Provider, error) {
	logger.Infof("Creating MinIO provider with endpoint: %s, useSSL: %v", endpoint, useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	provider := &minioProvider{
		client: client,
		bucket: bucket,
	}

	if err := provider.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	logger.Info("MinIO provider initialized successfully")
	return provider, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (m *minioProvider) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		logger.Infof("Creating bucket: %s", m.bucket)
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// Read downloads an object from MinIO
func (m *minioProvider) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object from MinIO: %w", err)
	}
	defer obj.Close()

	// GetObject is lazy; the missing-key error surfaces on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object from MinIO: %w", err)
	}
	return data, nil
}

// Write uploads data to MinIO
func (m *minioProvider) Write(ctx context.Context, path string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(path),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to MinIO: %w", err)
	}
	return nil
}

// Delete removes an object; MinIO treats missing keys as success
func (m *minioProvider) Delete(ctx context.Context, path string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object from MinIO: %w", err)
	}
	return nil
}

func (m *minioProvider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := m.Stat(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Stat returns object information
func (m *minioProvider) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return &FileInfo{
		Name:         info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}
