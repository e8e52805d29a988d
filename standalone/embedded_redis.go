package main

import (
	"context"
	"log"
	"net"

	"moviehub/pkg/config"
	"moviehub/pkg/logger"

	"github.com/alicebob/miniredis/v2"
)

var embeddedRedis *miniredis.Miniredis

func startEmbeddedRedis(ctx context.Context, cfg *config.Config, ready chan<- struct{}) {
	logger.Info("Starting embedded Redis...")

	var err error
	embeddedRedis, err = miniredis.Run()
	if err != nil {
		log.Fatalf("Failed to start embedded Redis: %v", err)
	}

	host, port, err := net.SplitHostPort(embeddedRedis.Addr())
	if err != nil {
		log.Fatalf("Unexpected embedded Redis address %q: %v", embeddedRedis.Addr(), err)
	}
	cfg.Redis.Host = host
	cfg.Redis.Port = port

	logger.Infof("Embedded Redis started on %s", embeddedRedis.Addr())
	close(ready)

	<-ctx.Done()

	logger.Info("Shutting down embedded Redis...")
	embeddedRedis.Close()
}
