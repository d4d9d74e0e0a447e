package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"winescore/internal/config"
	wineruntime "winescore/internal/runtime"
)

// Server exposes a local runtime over HTTP. Loaded models are kept in an LRU;
// removed or evicted handles become unknown to clients.
type Server struct {
	rt     *wineruntime.Runtime
	models *lru.Cache[string, *wineruntime.Model]
	apiKey string
	logger *zap.Logger
}

func New(rt *wineruntime.Runtime, cfg config.ServerConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 16
	}
	cache, err := lru.NewWithEvict(size, func(id string, m *wineruntime.Model) {
		logger.Info("model unloaded", zap.String("id", id), zap.String("name", m.Name))
	})
	if err != nil {
		return nil, fmt.Errorf("create model cache: %w", err)
	}
	return &Server{rt: rt, models: cache, apiKey: cfg.APIKey, logger: logger}, nil
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/health", s.health)

	api := r.Group("/")
	api.Use(s.apiKeyMiddleware)
	api.POST("/models", s.loadModel)
	api.GET("/models/:id", s.getModel)
	api.DELETE("/models/:id", s.deleteModel)
	api.POST("/predict", s.predict)
	return r
}

// Serve listens on addr until ctx is done, then drains in-flight requests.
// A listen failure is returned instead of exiting so the caller can still
// release the runtime.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("scoring server listening", zap.String("addr", addr), zap.String("version", wineruntime.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("scoring server stopped")
	return nil
}
