package api

import (
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docassist/internal/api/docs"
	"github.com/liliang-cn/docassist/internal/api/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
	Logger       *zap.Logger
}

// SetupRouter sets up the Gin router
func SetupRouter(assistant docs.Assistant, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Documentation API (public)
	docsHandler := docs.NewHandler(assistant, logger)
	docsHandler.RegisterRoutes(r.Group("/api"))

	return r
}
