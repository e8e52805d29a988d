package storage

import (
	"context"
	"fmt"
	"strings"

	"moviehub/pkg/config"
)

// Storage provider constants
const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
	StorageProviderMinIO = "minio"
)

// NewStorageProvider creates a storage provider based on configuration
func NewStorageProvider(ctx context.Context, cfg *config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case StorageProviderLocal, "":
		return NewLocalProvider(cfg.LocalPath)

	case StorageProviderGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS bucket name is required")
		}
		return NewGCSProvider(ctx, cfg.GCSBucket)

	case StorageProviderMinIO:
		if cfg.MinIO.Bucket == "" {
			return nil, fmt.Errorf("MinIO bucket name is required")
		}
		return NewMinIOProvider(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

func contentType(path string) string {
	if strings.HasSuffix(path, ".json") {
		return "application/json"
	}
	return "application/octet-stream"
}
