package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-directory-service/internal/adapter/gin/handler"
	ginrouter "user-directory-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	env string,
	userHandler *ginhandler.UserHandler,
	healthHandler *ginhandler.HealthHandler,
	addr string,
	l *zap.Logger,
) *http.Server {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(userHandler, healthHandler, l)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      40 * time.Second, // above the default SQLite busy timeout
		IdleTimeout:       120 * time.Second,
	}
}
