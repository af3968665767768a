package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "rest-user-service/internal/adapter/gin/handler"
	ginrouter "rest-user-service/internal/adapter/gin/router"
	"rest-user-service/internal/config"
	redisclient "rest-user-service/pkg/redis"
)

// Server wraps the HTTP server serving the REST API.
type Server struct {
	HTTP *http.Server
	log  *zap.Logger
}

// New builds the HTTP server around the configured router.
func New(
	cfg *config.Config,
	l *zap.Logger,
	handler *ginhandler.UserHandler,
	redisClient *redisclient.Client,
) *Server {
	router := ginrouter.SetupRouter(handler, cfg, redisClient, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("REST API configured", zap.String("address", addr))

	return &Server{
		HTTP: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: l,
	}
}

// Start begins serving. It blocks until the server stops; a clean
// shutdown is reported as nil.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
