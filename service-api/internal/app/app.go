package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviehub/pkg/assistant"
	"moviehub/pkg/auth"
	"moviehub/pkg/comments"
	"moviehub/pkg/config"
	"moviehub/pkg/database"
	"moviehub/pkg/logger"
	"moviehub/pkg/redis"
	"moviehub/pkg/storage"
	"moviehub/pkg/tmdb"
	mdw "moviehub/service-api/internal/app/middleware"
	ctl "moviehub/service-api/internal/controller"
	authRepo "moviehub/service-api/internal/repository/auth"
	userRepo "moviehub/service-api/internal/repository/user"
	assistantService "moviehub/service-api/internal/service/assistant"
	authService "moviehub/service-api/internal/service/auth"
	browseService "moviehub/service-api/internal/service/browse"
	commentService "moviehub/service-api/internal/service/comment"
	libraryService "moviehub/service-api/internal/service/library"
	movieService "moviehub/service-api/internal/service/movie"
	userService "moviehub/service-api/internal/service/user"
)

// Dependencies are the external systems the API is built on
type Dependencies struct {
	UserRepo  userRepo.Repository
	AuthRepo  authRepo.Repository
	Redis     *redis.Client
	Files     storage.Provider
	Catalog   *tmdb.Client
	// Assistant answers movie assistant prompts; nil leaves the assistant unavailable
	Assistant assistantService.Completer
}

type AppServer struct {
	config              *config.Config
	jwtManager          *auth.JWTManager
	middleware          mdw.MiddlewareProvider
	controller          ctl.ControllerProvider
	movieController     *ctl.MovieController
	browseController    *ctl.BrowseController
	libraryController   *ctl.LibraryController
	commentController   *ctl.CommentController
	assistantController *ctl.AssistantController
	browseService       browseService.Service
	libraryService      libraryService.Service
	closers             []func() error
}

// NewAppServer connects to the database, Redis, the cloud file store and the
// movie catalog, then builds the API on top of them.
func NewAppServer(cfg *config.Config) *AppServer {
	// initialize database
	db, err := database.NewPgDB(cfg)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	err = database.InitSchema(context.Background(), db)
	if err != nil {
		logger.Fatalf("failed to initialize database schema: %v", err)
	}

	// initialize Redis client
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatalf("failed to initialize Redis client: %v", err)
	}

	// initialize storage provider
	storageProvider, err := storage.NewStorageProvider(context.Background(), &cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize storage provider: %v", err)
	}

	if cfg.TMDB.APIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, catalog requests will be rejected")
	}

	var completer assistantService.Completer
	if cfg.Assistant.APIKey != "" {
		completer = assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.Timeout)
	} else {
		logger.Warn("ASSISTANT_API_KEY is not set, the movie assistant is disabled")
	}

	server := NewAppServerWithDependencies(cfg, Dependencies{
		UserRepo:  userRepo.NewRepository(db),
		AuthRepo:  authRepo.NewRepository(db),
		Redis:     redisClient,
		Files:     storageProvider,
		Catalog:   tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Timeout),
		Assistant: completer,
	})
	server.closers = append(server.closers, redisClient.Close, db.Close)
	return server
}

// NewAppServerWithDependencies builds services, controllers and middleware
// over already connected dependencies.
func NewAppServerWithDependencies(cfg *config.Config, deps Dependencies) *AppServer {
	// comments share the Redis key space; older clients left a session entry behind
	commentStore := comments.NewStore(deps.Redis, cfg.Comments.MaxLength)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := commentStore.RemoveLegacySession(ctx); err != nil {
		logger.Error(err, "failed to remove legacy session entry")
	}
	cancel()

	// initialize services
	librarySvc := libraryService.NewLibraryService(deps.Files, deps.AuthRepo, deps.Redis)
	userSvc := userService.NewUserService(deps.UserRepo)
	authSvc := authService.NewAuthService(cfg, userSvc, librarySvc, deps.AuthRepo)
	movieSvc := movieService.NewMovieService(deps.Catalog, deps.Redis)
	browseSvc := browseService.NewBrowseService(deps.Catalog, cfg.Browse.SearchDebounce, cfg.Browse.SessionTTL)
	commentSvc := commentService.NewCommentService(commentStore)
	assistantSvc := assistantService.NewAssistantService(deps.Assistant, deps.Redis, deps.AuthRepo)

	// initialize controllers
	controller := ctl.NewController(authSvc, userSvc, librarySvc)
	movieController := ctl.NewMovieController(movieSvc, librarySvc)
	browseController := ctl.NewBrowseController(browseSvc)
	libraryController := ctl.NewLibraryController(librarySvc, movieSvc)
	commentController := ctl.NewCommentController(commentSvc)
	assistantController := ctl.NewAssistantController(assistantSvc)

	// initialize middleware
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	middleware := mdw.NewMiddleware(jwtManager)

	return &AppServer{
		config:              cfg,
		jwtManager:          jwtManager,
		middleware:          middleware,
		controller:          controller,
		movieController:     movieController,
		browseController:    browseController,
		libraryController:   libraryController,
		commentController:   commentController,
		assistantController: assistantController,
		browseService:       browseSvc,
		libraryService:      librarySvc,
	}
}

func (a *AppServer) Serve() {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.Port),
		Handler: a.RegisterHandlers(),
	}

	// serve the server
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	logger.Infof("server started on port %s", a.config.Port)

	a.gracefulShutdown(server)

	logger.Info("server shutdown complete")
}

// Close stops background work and flushes pending library writes
func (a *AppServer) Close() {
	a.browseService.Close()
	a.libraryService.Close()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Error(err, "failed to close dependency")
		}
	}
}

func (a *AppServer) gracefulShutdown(server *http.Server) {
	ctx, stopCtx := context.WithCancel(context.Background())

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP) // wait for the sigterm
		<-signals

		// we received an os signal, shut down.
		err := server.Shutdown(ctx)
		if err != nil {
			logger.Error(err, "server shutdown error")
		} else {
			logger.Info("server graceful shutdown")
		}

		a.Close()
		stopCtx()
	}()

	<-ctx.Done()
}
