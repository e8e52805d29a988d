package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"moviehub/pkg/auth"
	"moviehub/pkg/config"
	"moviehub/pkg/logger"
	"moviehub/pkg/redis"
	"moviehub/service-sync/internal/handler"
	"moviehub/service-sync/internal/repository"
	"moviehub/service-sync/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type AppServer struct {
	config      *config.Config
	handler     *handler.RelayHandler
	jwtManager  *auth.JWTManager
	redisClient *redis.Client
}

// NewAppServer creates a new sync server instance
func NewAppServer(cfg *config.Config) *AppServer {
	// initialize Redis client
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatalf("failed to initialize Redis client: %v", err)
	}

	return NewAppServerWithRedis(cfg, redisClient)
}

// NewAppServerWithRedis builds the sync server over a connected Redis client
func NewAppServerWithRedis(cfg *config.Config, redisClient *redis.Client) *AppServer {
	// service-sync only relays events published by service-api
	eventRepo := repository.NewEventRepository(redisClient)
	relayService := service.NewRelayService(eventRepo)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)

	return &AppServer{
		config:      cfg,
		handler:     handler.NewRelayHandler(relayService, jwtManager, cfg.CORS.AllowedOrigins),
		jwtManager:  jwtManager,
		redisClient: redisClient,
	}
}

// Router builds the gin engine with every route registered
func (s *AppServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// cors middleware
	if len(s.config.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.CORS.AllowedOrigins,
			AllowMethods:     s.config.CORS.AllowedMethods,
			AllowHeaders:     s.config.CORS.AllowedHeaders,
			AllowCredentials: true,
		}))
	}

	s.setupRoutes(router)
	return router
}

// Serve starts the sync server
func (s *AppServer) Serve() {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.config.SyncPort),
		Handler: s.Router(),
	}

	sslEnabled := os.Getenv("SSL_ENABLED") == "true"
	certPath := os.Getenv("SSL_CERT_PATH")
	keyPath := os.Getenv("SSL_KEY_PATH")

	// start server
	go func() {
		var err error
		if sslEnabled && certPath != "" && keyPath != "" {
			logger.Infof("Starting SSL server on port %s", s.config.SyncPort)
			err = server.ListenAndServeTLS(certPath, keyPath)
		} else {
			logger.Infof("Starting HTTP server on port %s", s.config.SyncPort)
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("sync server failed to start: %v", err)
		}
	}()

	logger.Infof("sync server started on port %s (SSL: %v)", s.config.SyncPort, sslEnabled)

	s.gracefulShutdown(server)

	logger.Info("sync server shutdown complete")
}

// setupRoutes configures the server routes
func (s *AppServer) setupRoutes(router *gin.Engine) {
	// websocket endpoint for library sync events
	router.GET("/ws/library", s.handler.HandleWebSocket)

	api := router.Group("/api/v1")
	api.Use(auth.AuthMiddleware(s.jwtManager))
	{
		api.GET("/library/connections", s.handler.GetConnections)
	}

	// health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "sync"})
	})
}

// gracefulShutdown handles graceful server shutdown
func (s *AppServer) gracefulShutdown(server *http.Server) {
	ctx, stopCtx := context.WithCancel(context.Background())

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		<-signals

		// shutdown server
		err := server.Shutdown(ctx)
		if err != nil {
			logger.Error(err, "sync server shutdown error")
		} else {
			logger.Info("sync server graceful shutdown")
		}

		// close Redis connection; open streams end with their subscriptions
		if s.redisClient != nil {
			s.redisClient.Close()
		}

		stopCtx()
	}()

	<-ctx.Done()
}
