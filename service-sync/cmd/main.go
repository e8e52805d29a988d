package main

import (
	"moviehub/pkg/config"
	"moviehub/pkg/logger"
	"moviehub/service-sync/internal/app"
)

func main() {
	// initialize configuration
	cfg := config.NewConfig()

	// initialize logger
	logger.InitLogger(cfg)

	// create and start the sync service
	server := app.NewAppServer(cfg)
	server.Serve()
}
