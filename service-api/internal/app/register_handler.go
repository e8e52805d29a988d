package app

import (
	"moviehub/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (a *AppServer) RegisterHandlers() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler := gin.New()

	// middlewares
	logger.Debugf("allowing CORS origins: %v", a.config.CORS.AllowedOrigins)
	logger.Debugf("allowing CORS methods: %v", a.config.CORS.AllowedMethods)
	logger.Debugf("allowing CORS headers: %v", a.config.CORS.AllowedHeaders)

	// cors middleware
	corsConfig := cors.Config{
		AllowOrigins:     a.config.CORS.AllowedOrigins,
		AllowMethods:     a.config.CORS.AllowedMethods,
		AllowHeaders:     a.config.CORS.AllowedHeaders,
		AllowCredentials: true,
		AllowOriginFunc:  a.originAllowed,
	}
	handler.Use(cors.New(corsConfig))
	handler.Use(gin.Logger())
	handler.Use(gin.Recovery())

	handler.OPTIONS("/*path", func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && a.originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "43200")
		c.Status(200)
	})

	requireAuth := a.middleware.RequireAuth()
	optionalAuth := a.middleware.OptionalAuth()

	// health check
	handler.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// api routes
	api := handler.Group("/api/v1")

	// public routes (no authentication required)
	{
		// auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signin", a.controller.Login)
			auth.POST("/signout", a.controller.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("/register", a.controller.RegisterUser)
		}

		// browse sessions
		browse := api.Group("/browse")
		{
			browse.POST("", a.browseController.CreateSession)
			browse.GET("/:sessionId", a.browseController.GetSession)
			browse.PUT("/:sessionId/search", a.browseController.Search)
			browse.PUT("/:sessionId/category", a.browseController.SetCategory)
			browse.POST("/:sessionId/next", a.browseController.NextPage)
			browse.POST("/:sessionId/sentinel", a.browseController.Sentinel)
			browse.POST("/:sessionId/trending", a.browseController.Trending)
		}
	}

	// catalog routes; a signed-in caller also gets list membership
	movies := api.Group("/movies")
	movies.Use(optionalAuth)
	{
		movies.GET("/discover", a.movieController.Discover)
		movies.GET("/trending", a.movieController.Trending)
		movies.GET("/:movieId", a.movieController.GetMovie)
		movies.GET("/:movieId/similar", a.movieController.Similar)
		movies.GET("/:movieId/comments", a.commentController.ListComments)
		movies.POST("/:movieId/comments", requireAuth, a.commentController.CreateComment)
		movies.DELETE("/:movieId/comments/:commentId", requireAuth, a.commentController.DeleteComment)
	}

	// authenticated user routes
	me := api.Group("/me")
	me.Use(requireAuth)
	{
		me.GET("", a.controller.GetProfile)
		me.POST("/favorites/:movieId", a.libraryController.ToggleFavorite)
		me.POST("/watchlist/:movieId", a.libraryController.ToggleWatchlist)
		me.GET("/watchlist/movies", a.libraryController.WatchlistMovies)
		me.GET("/sync", a.libraryController.SyncStatus)
	}

	// movie assistant chat, signed-in users only
	assistant := api.Group("/assistant")
	assistant.Use(requireAuth)
	{
		assistant.POST("/chat", a.assistantController.Chat)
		assistant.GET("/messages", a.assistantController.History)
		assistant.DELETE("/messages", a.assistantController.Reset)
	}

	return handler
}

func (a *AppServer) originAllowed(origin string) bool {
	for _, allowedOrigin := range a.config.CORS.AllowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}
