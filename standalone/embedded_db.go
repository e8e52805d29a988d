package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"moviehub/pkg/config"
	"moviehub/pkg/database"
	"moviehub/pkg/logger"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
)

var (
	embeddedDB   *embeddedpostgres.EmbeddedPostgres
	dbConnection *sql.DB
	dbPort       uint32
)

// findAvailablePort finds an available port starting from the given port
func findAvailablePort(startPort uint32) uint32 {
	for port := startPort; port < startPort+100; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			ln.Close()
			return port
		}
	}
	log.Fatalf("Could not find an available port starting from %d", startPort)
	return 0
}

// standaloneDir returns ~/.moviehub/<name>, created if missing
func standaloneDir(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get user home directory: %v", err)
	}
	dir := filepath.Join(homeDir, ".moviehub", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	return dir
}

func startEmbeddedDB(ctx context.Context, cfg *config.Config, ready chan<- struct{}) {
	logger.Info("Starting embedded PostgreSQL...")

	dbPort = findAvailablePort(15432)
	logger.Infof("Using port %d for PostgreSQL", dbPort)

	// accounts persist across restarts
	dataDir := standaloneDir("data")
	runtimeDir := standaloneDir("runtime")
	binariesDir := standaloneDir("binaries")

	embeddedDB = embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username(cfg.Database.Username).
		Password(cfg.Database.Password).
		Database(cfg.Database.Name).
		Port(dbPort).
		RuntimePath(runtimeDir).
		DataPath(dataDir).
		BinariesPath(binariesDir).
		StartTimeout(60 * time.Second))

	err := embeddedDB.Start()
	if err != nil {
		log.Fatalf("Failed to start embedded PostgreSQL: %v", err)
	}

	cfg.Database.Host = "localhost"
	cfg.Database.Port = fmt.Sprintf("%d", dbPort)

	dbConnection, err = database.NewPgDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to embedded PostgreSQL: %v", err)
	}

	err = database.InitSchema(ctx, dbConnection)
	if err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	logger.Infof("Embedded PostgreSQL started on port %d", dbPort)
	close(ready)

	<-ctx.Done()

	logger.Info("Shutting down embedded PostgreSQL...")
	if dbConnection != nil {
		dbConnection.Close()
	}
	if embeddedDB != nil {
		if err := embeddedDB.Stop(); err != nil {
			logger.Error(err, "failed to stop embedded PostgreSQL")
		}
	}
}
