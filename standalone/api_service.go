package main

import (
	"context"

	"moviehub/pkg/config"
	api "moviehub/service-api"
)

func startAPIService(ctx context.Context, cfg *config.Config) {
	app := api.NewAppServer(cfg)
	app.Serve()
}
