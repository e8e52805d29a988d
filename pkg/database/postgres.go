package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"moviehub/pkg/config"
	"moviehub/pkg/logger"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// NewPgDB opens a connection pool and verifies it with a ping
func NewPgDB(
	cfg *config.Config,
) (*sql.DB, error) {
	dsn := getDSN(cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// ping db to ensure the connection is alive and working
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitSchema creates the account tables if they are missing
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Debug("database schema ready")
	return nil
}

func getDSN(
	cfg config.DatabaseConfig,
) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}
