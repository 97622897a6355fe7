package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/server/response"
	"github.com/techagentng/askx/services"
	"go.uber.org/zap"
)

// Server carries the dependencies of every HTTP handler.
type Server struct {
	Config          *config.Config
	Log             *zap.Logger
	VoteService     services.VoteService
	QuestionService services.QuestionService
	CommentService  services.CommentService
	PrefsService    services.PrefsService
	// RateLimitStore and IPRateLimitStore back the per-voter and per-address
	// vote limiters; nil picks one from Config.
	RateLimitStore   ratelimit.Store
	IPRateLimitStore ratelimit.Store

	feed    *voteFeed
	metrics *metrics
	redis   *redis.Client
}

func (s *Server) init() {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.feed == nil {
		s.feed = newVoteFeed(s.Log)
	}
	if s.metrics == nil {
		s.metrics = newMetrics()
	}
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	router := s.setupRouter()
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.Port),
		Handler:      router,
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	s.feed.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := s.VoteService.Drain(shutdownCtx); err != nil {
		s.Log.Warn("pending vote notifications abandoned", zap.Error(err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.Log.Warn("closing redis client", zap.Error(err))
		}
	}
	return nil
}

// respondError logs failures the client cannot act on and writes the envelope.
func (s *Server) respondError(c *gin.Context, err error) {
	if status := statusOf(err); status >= http.StatusInternalServerError {
		s.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.HandleErrors(c, err)
}
