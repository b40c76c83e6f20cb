package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/bitsctl/internal/auth"
	"github.com/danmuck/bitsctl/internal/config"
	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the decode service over HTTP.
type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	svc    *service.Service
	token  string
	router *gin.Engine
	logger zerolog.Logger
}

func New(cfg config.Config, svc *service.Service, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	if len(cfg.Server.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.CorsOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization", auth.HeaderAPIToken},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies(cfg.Server.TrustedProxies)

	s := &Server{
		Name:     cfg.Name,
		Addr:     cfg.Server.Addr,
		Appeared: time.Now(),
		svc:      svc,
		token:    cfg.Server.APIToken,
		router:   r,
		logger:   logger,
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("stopped")
	return nil
}
