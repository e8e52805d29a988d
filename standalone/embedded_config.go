package main

import (
	"os"
	"time"

	"moviehub/pkg/config"
)

// createEmbeddedConfig creates the configuration for the standalone application.
// Only the TMDB token comes from the environment.
func createEmbeddedConfig() *config.Config {
	return &config.Config{
		Port:      "8080",
		SyncPort:  "8081",
		JWTSecret: envOr("JWT_SECRET", "embedded-jwt-secret-key-change-in-production"),
		Database: config.DatabaseConfig{
			Name:            "moviehub",
			Host:            "localhost",
			Port:            "15432",
			Username:        "postgres",
			Password:        "postgres",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			SSLMode:         "disable",
		},
		Log: config.LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: "console",
		},
		Redis: config.RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Storage: config.StorageConfig{
			Provider:  "local",
			LocalPath: standaloneDir("files"),
		},
		TMDB: config.TMDBConfig{
			APIKey:  os.Getenv("TMDB_API_KEY"),
			BaseURL: "https://api.themoviedb.org/3",
			Timeout: 10 * time.Second,
		},
		Assistant: config.AssistantConfig{
			APIKey:  os.Getenv("ASSISTANT_API_KEY"),
			BaseURL: envOr("ASSISTANT_BASE_URL", "https://api.openai.com/v1"),
			Model:   envOr("ASSISTANT_MODEL", "gpt-4o-mini"),
			Timeout: 60 * time.Second,
		},
		Browse: config.BrowseConfig{
			SearchDebounce: 500 * time.Millisecond,
			SessionTTL:     30 * time.Minute,
		},
		Comments: config.CommentsConfig{
			MaxLength: 500,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
