package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"winescore/internal/config"
	"winescore/internal/data"
	"winescore/internal/features"
	wineruntime "winescore/internal/runtime"
)

// Run initializes the runtime, loads the configured model, scores the
// configured row and writes the prediction frame to out. It stops at the first
// failure; nothing is retried.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (pred *data.Prediction, err error) {
	rt, err := wineruntime.Init(ctx, cfg.Runtime, logger)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, rt.Close()) }()

	model, err := rt.LoadModel(ctx, cfg.Model.Path)
	if err != nil {
		return nil, err
	}

	row, err := features.BuildRow(cfg.Input.Values)
	if err != nil {
		return nil, err
	}

	pred, err = rt.Predict(ctx, model, row)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(out, pred); err != nil {
		return pred, fmt.Errorf("write prediction: %w", err)
	}
	return pred, nil
}
