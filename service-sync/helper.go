package helper

import (
	"moviehub/pkg/config"
	"moviehub/service-sync/internal/app"
)

func NewSyncServer(
	cfg *config.Config,
) *app.AppServer {
	return app.NewAppServer(cfg)
}
