package helper

import (
	"moviehub/pkg/config"
	"moviehub/service-api/internal/app"
)

func NewAppServer(
	cfg *config.Config,
) *app.AppServer {
	return app.NewAppServer(cfg)
}
