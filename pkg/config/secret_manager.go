package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretManagerConfig represents the JSON structure stored in Secret Manager
type SecretManagerConfig struct {
	Application SecretApplicationConfig `json:"application"`
	Database    SecretDatabaseConfig    `json:"database"`
	Redis       SecretRedisConfig       `json:"redis"`
	Storage     SecretStorageConfig     `json:"storage"`
	TMDB        SecretTMDBConfig        `json:"tmdb"`
}

// SecretApplicationConfig holds application-specific settings from Secret Manager
type SecretApplicationConfig struct {
	Port               string `json:"port"`
	SyncPort           string `json:"sync_port"`
	JWTSecret          string `json:"jwt_secret"`
	LogLevel           string `json:"log_level"`
	LogFormat          string `json:"log_format"`
	CORSAllowedOrigins string `json:"cors_allowed_origins"`
	SearchDebounce     string `json:"search_debounce"`
	SessionTTL         string `json:"session_ttl"`
	CommentMaxLength   string `json:"comment_max_length"`
}

// SecretDatabaseConfig holds database connection settings from Secret Manager
type SecretDatabaseConfig struct {
	Name            string `json:"name"`
	Host            string `json:"host"`
	Port            string `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	MaxOpenConns    string `json:"max_open_conns"`
	MaxIdleConns    string `json:"max_idle_conns"`
	ConnMaxLifetime string `json:"conn_max_lifetime"`
	SSLMode         string `json:"ssl_mode"`
}

// SecretRedisConfig holds Redis connection settings from Secret Manager
type SecretRedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       string `json:"db"`
}

// SecretStorageConfig holds storage provider settings from Secret Manager
type SecretStorageConfig struct {
	Provider       string `json:"provider"`
	LocalPath      string `json:"local_path"`
	GCSBucket      string `json:"gcs_bucket"`
	MinIOEndpoint  string `json:"minio_endpoint"`
	MinIOAccessKey string `json:"minio_access_key"`
	MinIOSecretKey string `json:"minio_secret_key"`
	MinIOBucket    string `json:"minio_bucket"`
	MinIOUseSSL    string `json:"minio_use_ssl"`
}

// SecretTMDBConfig holds movie catalog settings from Secret Manager
type SecretTMDBConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout"`
}

// LoadFromSecretManager loads configuration from Google Secret Manager
func LoadFromSecretManager(ctx context.Context, projectID, secretName string) (*Config, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secretmanager client: %v", err)
	}
	defer client.Close()

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName),
	}

	result, err := client.AccessSecretVersion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %v", err)
	}

	return parseSecretPayload(result.Payload.Data)
}

// parseSecretPayload decodes the JSON blob stored in Secret Manager
func parseSecretPayload(data []byte) (*Config, error) {
	var secretConfig SecretManagerConfig
	if err := json.Unmarshal(data, &secretConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config JSON: %v", err)
	}

	return convertSecretToConfig(&secretConfig)
}

// convertSecretToConfig converts SecretManagerConfig to the Config structure
func convertSecretToConfig(secret *SecretManagerConfig) (*Config, error) {
	maxOpenConns, err := strconv.Atoi(secret.Database.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("invalid max_open_conns: %v", err)
	}

	maxIdleConns, err := strconv.Atoi(secret.Database.MaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("invalid max_idle_conns: %v", err)
	}

	connMaxLifetime, err := time.ParseDuration(secret.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("invalid conn_max_lifetime: %v", err)
	}

	redisDB, err := strconv.Atoi(secret.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("invalid redis db: %v", err)
	}

	tmdbTimeout, err := durationOrDefault(secret.TMDB.Timeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb timeout: %v", err)
	}

	searchDebounce, err := durationOrDefault(secret.Application.SearchDebounce, 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid search_debounce: %v", err)
	}

	sessionTTL, err := durationOrDefault(secret.Application.SessionTTL, 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid session_ttl: %v", err)
	}

	maxLength := 500
	if secret.Application.CommentMaxLength != "" {
		maxLength, err = strconv.Atoi(secret.Application.CommentMaxLength)
		if err != nil {
			return nil, fmt.Errorf("invalid comment_max_length: %v", err)
		}
	}

	useSSL := false
	if secret.Storage.MinIOUseSSL != "" {
		useSSL, err = strconv.ParseBool(secret.Storage.MinIOUseSSL)
		if err != nil {
			return nil, fmt.Errorf("invalid minio_use_ssl: %v", err)
		}
	}

	baseURL := secret.TMDB.BaseURL
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}

	syncPort := secret.Application.SyncPort
	if syncPort == "" {
		syncPort = "8081"
	}

	return &Config{
		Port:      secret.Application.Port,
		SyncPort:  syncPort,
		JWTSecret: secret.Application.JWTSecret,
		Database: DatabaseConfig{
			Name:            secret.Database.Name,
			Host:            secret.Database.Host,
			Port:            secret.Database.Port,
			Username:        secret.Database.Username,
			Password:        secret.Database.Password,
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
			SSLMode:         secret.Database.SSLMode,
		},
		Log: LogConfig{
			Level:  secret.Application.LogLevel,
			Format: secret.Application.LogFormat,
		},
		Redis: RedisConfig{
			Host:     secret.Redis.Host,
			Port:     secret.Redis.Port,
			Password: secret.Redis.Password,
			DB:       redisDB,
		},
		Storage: StorageConfig{
			Provider:  secret.Storage.Provider,
			LocalPath: secret.Storage.LocalPath,
			GCSBucket: secret.Storage.GCSBucket,
			MinIO: MinIOConfig{
				Endpoint:  secret.Storage.MinIOEndpoint,
				AccessKey: secret.Storage.MinIOAccessKey,
				SecretKey: secret.Storage.MinIOSecretKey,
				Bucket:    secret.Storage.MinIOBucket,
				UseSSL:    useSSL,
			},
		},
		TMDB: TMDBConfig{
			APIKey:  secret.TMDB.APIKey,
			BaseURL: baseURL,
			Timeout: tmdbTimeout,
		},
		Browse: BrowseConfig{
			SearchDebounce: searchDebounce,
			SessionTTL:     sessionTTL,
		},
		Comments: CommentsConfig{
			MaxLength: maxLength,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(secret.Application.CORSAllowedOrigins),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
	}, nil
}

func durationOrDefault(value string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return time.ParseDuration(value)
}
