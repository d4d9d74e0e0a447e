package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"winescore/internal/config"
	"winescore/internal/pipeline"
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

	if _, err := pipeline.Run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Fatal("prediction failed", zap.String("model", cfg.Model.Path), zap.Error(err))
	}
}
