package main

import (
	"context"

	"moviehub/pkg/config"
	sync "moviehub/service-sync"
)

func startSyncService(ctx context.Context, cfg *config.Config) {
	app := sync.NewSyncServer(cfg)
	app.Serve()
}
