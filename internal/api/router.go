package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/revboard/revboard/internal/api/v1"
	"github.com/revboard/revboard/internal/config"
	"github.com/revboard/revboard/internal/logger"
	"github.com/revboard/revboard/internal/rest/middleware"
	"github.com/revboard/revboard/internal/types"
)

// Handlers groups the route handlers wired into the router
type Handlers struct {
	Dashboard *v1.DashboardHandler
}

// NewRouter assembles the gin engine with the standard middleware chain
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Logging.Level == types.LogLevelDebug {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = log.GetGinLogger()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.SentryMiddleware(cfg))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/v1")
	dashboard := group.Group("/dashboard")
	dashboard.GET("/revenue", handlers.Dashboard.GetRevenueOverview)

	return router
}
