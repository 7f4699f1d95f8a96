package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gubbigubbi/easy-social-sharing/internal/conf"
	networkservice "github.com/gubbigubbi/easy-social-sharing/internal/network/service"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	sharingservice "github.com/gubbigubbi/easy-social-sharing/internal/sharing/service"
	statsservice "github.com/gubbigubbi/easy-social-sharing/internal/statistics/service"
	"go.uber.org/zap"
)

// HTTPServer serves the share widget and admin APIs
type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer builds the router and wires every service's routes
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	networkService *networkservice.NetworkService,
	shareService *sharingservice.ShareService,
	statsService *statsservice.StatisticsService,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	admin := api.Group("/admin")

	networkService.RegisterRoutes(api, admin)
	shareService.RegisterRoutes(api)
	statsService.RegisterRoutes(admin)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: log,
	}
}

// Start runs the server until it is shut down
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully shuts the server down
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
