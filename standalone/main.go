package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"moviehub/pkg/logger"
)

func main() {
	// create centralized configuration
	cfg := createEmbeddedConfig()

	logger.InitLogger(cfg)

	logger.Info("Starting MovieHub standalone application...")
	logger.Info("This includes: PostgreSQL, Redis, local library storage, API service and sync service")
	if cfg.TMDB.APIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, catalog requests will fail")
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// start embedded services first and wait for them to be ready
	dbReady := make(chan struct{})
	redisReady := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		startEmbeddedDB(ctx, cfg, dbReady)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		startEmbeddedRedis(ctx, cfg, redisReady)
	}()

	logger.Info("Waiting for embedded services to be ready...")
	waitReady("PostgreSQL", dbReady, 90*time.Second)
	waitReady("Redis", redisReady, 30*time.Second)

	logger.Info("Starting application services...")

	// the API and sync servers run until the process receives a signal
	go startAPIService(ctx, cfg)
	go startSyncService(ctx, cfg)

	logger.Infof("API on http://localhost:%s, library events on ws://localhost:%s/ws/library", cfg.Port, cfg.SyncPort)

	// setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	logger.Info("Shutting down...")
	// give the servers a moment to drain library writes before the stores go away
	time.Sleep(time.Second)
	cancel()
	wg.Wait()
	logger.Info("Shutdown complete")
}

// waitReady blocks until ready is closed or the timeout expires
func waitReady(name string, ready <-chan struct{}, timeout time.Duration) {
	select {
	case <-ready:
		logger.Infof("%s is ready", name)
	case <-time.After(timeout):
		logger.Fatalf("%s failed to become ready within %s", name, timeout)
	}
}
