package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string          `json:"port"`
	JWTSecret string          `json:"jwt_secret"`
	Database  DatabaseConfig  `json:"database"`
	Log       LogConfig       `json:"log"`
	Redis     RedisConfig     `json:"redis"`
	Storage   StorageConfig   `json:"storage"`
	TMDB      TMDBConfig      `json:"tmdb"`
	Assistant AssistantConfig `json:"assistant"`
	Browse    BrowseConfig    `json:"browse"`
	Comments  CommentsConfig  `json:"comments"`
	CORS      CORSConfig      `json:"cors"`
	SyncPort  string          `json:"sync_port"`
}

type DatabaseConfig struct {
	Name            string        `mapstructure:"db_name"`
	Host            string        `mapstructure:"db_host"`
	Port            string        `mapstructure:"db_port"`
	Username        string        `mapstructure:"db_username"`
	Password        string        `mapstructure:"db_password"`
	MaxOpenConns    int           `mapstructure:"db_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"db_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
	SSLMode         string        `mapstructure:"db_ssl_mode"` // e.g., "disable", "require", "verify-ca", "verify-full"
}

type LogConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"` // "json" or "console"
}

type RedisConfig struct {
	Host     string `mapstructure:"redis_host"`
	Port     string `mapstructure:"redis_port"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// StorageConfig selects the cloud file store that holds each user's library file.
type StorageConfig struct {
	Provider  string      `mapstructure:"storage_provider"` // "local", "gcs" or "minio"
	LocalPath string      `mapstructure:"storage_local_path"`
	GCSBucket string      `mapstructure:"storage_gcs_bucket"`
	MinIO     MinIOConfig `mapstructure:"storage_minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"minio_endpoint"`
	AccessKey string `mapstructure:"minio_access_key"`
	SecretKey string `mapstructure:"minio_secret_key"`
	Bucket    string `mapstructure:"minio_bucket"`
	UseSSL    bool   `mapstructure:"minio_use_ssl"`
}

// TMDBConfig holds the movie catalog API settings. APIKey is the v4 read access
// token sent as a bearer token.
type TMDBConfig struct {
	APIKey  string        `mapstructure:"tmdb_api_key"`
	BaseURL string        `mapstructure:"tmdb_base_url"`
	Timeout time.Duration `mapstructure:"tmdb_timeout"`
}

// AssistantConfig points the movie assistant at an OpenAI compatible chat
// completions API. An empty APIKey disables the assistant.
type AssistantConfig struct {
	APIKey  string        `mapstructure:"assistant_api_key"`
	BaseURL string        `mapstructure:"assistant_base_url"`
	Model   string        `mapstructure:"assistant_model"`
	Timeout time.Duration `mapstructure:"assistant_timeout"`
}

type BrowseConfig struct {
	SearchDebounce time.Duration `mapstructure:"browse_search_debounce"`
	SessionTTL     time.Duration `mapstructure:"browse_session_ttl"`
}

type CommentsConfig struct {
	MaxLength int `mapstructure:"comments_max_length"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	AllowedMethods []string `mapstructure:"cors_allowed_methods"`
	AllowedHeaders []string `mapstructure:"cors_allowed_headers"`
}

func init() {
	if !isGCP {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not find or load .env file.")
		}
	}
}

// NewConfig loads the configuration. When CONFIG_SECRET_NAME names a Secret
// Manager secret holding the whole configuration as JSON, that secret is used;
// otherwise every key is read on its own.
func NewConfig() *Config {
	if project, name, ok := blobSecret(); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cfg, err := LoadFromSecretManager(ctx, project, name)
		if err != nil {
			log.Fatalf("FATAL: Cannot load config secret %q: %v", name, err)
		}
		return cfg
	}
	return newConfigFromKeys()
}

// blobSecret returns the project and name of the whole-config secret, if set.
func blobSecret() (project, name string, ok bool) {
	project = os.Getenv("GOOGLE_CLOUD_PROJECT")
	name = os.Getenv("CONFIG_SECRET_NAME")
	return project, name, project != "" && name != ""
}

func newConfigFromKeys() *Config {
	return &Config{
		Port:      getOptionalSecret("PORT", "8080"),
		SyncPort:  getOptionalSecret("SYNC_PORT", "8081"),
		JWTSecret: getRequiredSecret("JWT_SECRET"),
		Database: DatabaseConfig{
			Name:            getRequiredSecret("DB_NAME"),
			Host:            getRequiredSecret("DB_HOST"),
			Port:            getRequiredSecret("DB_PORT"),
			Username:        getRequiredSecret("DB_USERNAME"),
			Password:        getRequiredSecret("DB_PASSWORD"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME"),
			SSLMode:         getOptionalSecret("DB_SSL_MODE", "disable"),
		},
		Log: LogConfig{
			Level:  getOptionalSecret("LOG_LEVEL", "info"),
			Format: getOptionalSecret("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			Host:     getOptionalSecret("REDIS_HOST", "localhost"),
			Port:     getOptionalSecret("REDIS_PORT", "6379"),
			Password: getOptionalSecret("REDIS_PASSWORD", ""),
			DB:       parseOptionalInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Provider:  getOptionalSecret("STORAGE_PROVIDER", "local"),
			LocalPath: getOptionalSecret("STORAGE_LOCAL_PATH", "./data/library"),
			GCSBucket: getOptionalSecret("STORAGE_GCS_BUCKET", ""),
			MinIO: MinIOConfig{
				Endpoint:  getOptionalSecret("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getOptionalSecret("MINIO_ACCESS_KEY", ""),
				SecretKey: getOptionalSecret("MINIO_SECRET_KEY", ""),
				Bucket:    getOptionalSecret("MINIO_BUCKET", "moviehub"),
				UseSSL:    parseOptionalBool("MINIO_USE_SSL", false),
			},
		},
		TMDB: TMDBConfig{
			APIKey:  getRequiredSecret("TMDB_API_KEY"),
			BaseURL: getOptionalSecret("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			Timeout: parseOptionalDuration("TMDB_TIMEOUT", 10*time.Second),
		},
		Assistant: AssistantConfig{
			APIKey:  getOptionalSecret("ASSISTANT_API_KEY", ""),
			BaseURL: getOptionalSecret("ASSISTANT_BASE_URL", "https://api.openai.com/v1"),
			Model:   getOptionalSecret("ASSISTANT_MODEL", "gpt-4o-mini"),
			Timeout: parseOptionalDuration("ASSISTANT_TIMEOUT", 60*time.Second),
		},
		Browse: BrowseConfig{
			SearchDebounce: parseOptionalDuration("BROWSE_SEARCH_DEBOUNCE", 500*time.Millisecond),
			SessionTTL:     parseOptionalDuration("BROWSE_SESSION_TTL", 30*time.Minute),
		},
		Comments: CommentsConfig{
			MaxLength: parseOptionalInt("COMMENTS_MAX_LENGTH", 500),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getOptionalSecret("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
			AllowedMethods: splitList(getOptionalSecret("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
			AllowedHeaders: splitList(getOptionalSecret("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Authorization")),
		},
	}
}

// splitList parses a comma-separated setting, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
