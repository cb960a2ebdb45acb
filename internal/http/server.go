package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
	"github.com/varoOP/mangacat/internal/manga"
	"github.com/varoOP/mangacat/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the collection API, health checks and metrics
type Server struct {
	log          zerolog.Logger
	config       *domain.Config
	db           pinger
	mangaService manga.Service
	version      string
}

func NewServer(log zerolog.Logger, config *domain.Config, db pinger, mangaService manga.Service, version string) *Server {
	return &Server{
		log:          log.With().Str("module", "http").Logger(),
		config:       config,
		db:           db,
		mangaService: mangaService,
		version:      version,
	}
}

// Handler builds the gin router
func (s *Server) Handler() http.Handler {
	metrics.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(s.log))

	router.GET("/health", s.health)
	router.GET("/ready", s.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/manga")
	if s.config.RateLimitPerMinute > 0 {
		api.Use(rateLimit(s.log, newClientLimiter(s.config.RateLimitPerMinute, s.config.RateLimitBurst)))
	}
	newMangaHandler(s.log, s.mangaService).Routes(api)

	return router
}

// Open listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Open(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Str("version", s.version).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown failed")
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Error().Err(err).Msg("database not ready")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
}
