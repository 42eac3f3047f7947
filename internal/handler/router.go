package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"popupkit/jokebox/internal/config"
	"popupkit/jokebox/internal/handler/middleware"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jokeHandler *JokeHandler,
	notesHandler *NotesHandler,
	tabHandler *TabHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/jokes/random", jokeHandler.Random)

		api.GET("/notes", notesHandler.Get)
		api.PUT("/notes", notesHandler.Put)
		api.DELETE("/notes", notesHandler.Clear)
		api.POST("/notes/draft", notesHandler.Draft)

		api.GET("/tabs/last", tabHandler.GetLast)
		api.PUT("/tabs/last", tabHandler.SetLast)
	}

	return r
}
