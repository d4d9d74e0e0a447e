package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"winescore/internal/config"
	wineruntime "winescore/internal/runtime"
	"winescore/internal/server"
	"winescore/pkg/utils"
)

func main() {
	cfg, err := config.Load(os.Getenv("WINE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The server always evaluates in process, whatever the client-side backend says.
	rtCfg := cfg.Runtime
	rtCfg.Backend = config.BackendLocal
	rt, err := wineruntime.Init(ctx, rtCfg, logger)
	if err != nil {
		logger.Fatal("runtime init failed", zap.Error(err))
	}

	s, err := server.New(rt, cfg.Server, logger)
	if err != nil {
		closeRuntime(rt, logger)
		logger.Fatal("server init failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	serveErr := s.Serve(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
	closeRuntime(rt, logger)
	if serveErr != nil {
		logger.Fatal("server failed", zap.Error(serveErr))
	}
}

// logger.Fatal exits without running defers, so the runtime is closed explicitly.
func closeRuntime(rt *wineruntime.Runtime, logger *zap.Logger) {
	if err := rt.Close(); err != nil {
		logger.Error("runtime close", zap.Error(err))
	}
}
