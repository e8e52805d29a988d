package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecretPayload(t *testing.T) {
	payload := []byte(`{
		"application": {
			"port": "9090",
			"jwt_secret": "s3cret",
			"log_level": "debug",
			"log_format": "console",
			"cors_allowed_origins": "http://a.test, http://b.test",
			"search_debounce": "250ms"
		},
		"database": {
			"name": "moviehub", "host": "db", "port": "5432",
			"username": "u", "password": "p",
			"max_open_conns": "10", "max_idle_conns": "5",
			"conn_max_lifetime": "5m", "ssl_mode": "disable"
		},
		"redis": {"host": "cache", "port": "6379", "db": "2"},
		"storage": {"provider": "minio", "minio_endpoint": "minio:9000", "minio_bucket": "lib", "minio_use_ssl": "true"},
		"tmdb": {"api_key": "token"}
	}`)

	cfg, err := parseSecretPayload(payload)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "8081", cfg.SyncPort)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Browse.SearchDebounce)
	assert.Equal(t, 30*time.Minute, cfg.Browse.SessionTTL)
	assert.Equal(t, 500, cfg.Comments.MaxLength)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseSecretPayloadRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "bad max open conns",
			payload: `{"database": {"max_open_conns": "many"}}`,
		},
		{
			name: "bad redis db",
			payload: `{"database": {"max_open_conns": "1", "max_idle_conns": "1", "conn_max_lifetime": "1m"},
				"redis": {"db": "x"}}`,
		},
		{
			name:    "not json",
			payload: `{`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSecretPayload([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Empty(t, splitList(""))
}

func TestBlobSecret(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("CONFIG_SECRET_NAME", "moviehub-config")
	_, _, ok := blobSecret()
	assert.False(t, ok, "needs a project")

	t.Setenv("GOOGLE_CLOUD_PROJECT", "moviehub-prod")
	project, name, ok := blobSecret()
	assert.True(t, ok)
	assert.Equal(t, "moviehub-prod", project)
	assert.Equal(t, "moviehub-config", name)

	t.Setenv("CONFIG_SECRET_NAME", "")
	_, _, ok = blobSecret()
	assert.False(t, ok, "per-key secrets when no blob is named")
}
