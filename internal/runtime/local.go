package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"winescore/internal/config"
	"winescore/internal/data"
	"winescore/internal/features"
	"winescore/internal/models"
)

const defaultThreshold = 0.5

// localBackend evaluates models in process. Its scratch directory holds the
// files external engines need and lives as long as the runtime.
type localBackend struct {
	scratch string
}

func newLocalBackend() (*localBackend, error) {
	dir, err := os.MkdirTemp("", "winescore-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &localBackend{scratch: dir}, nil
}

func (b *localBackend) name() string { return config.BackendLocal }

func (b *localBackend) load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, engine, err := models.Open(path)
	if err != nil {
		return nil, err
	}
	if lg, ok := engine.(*models.LightGBMCLI); ok {
		lg.WorkDir = b.scratch
	}
	m := &Model{
		ID:        uuid.NewString(),
		Name:      a.Name,
		Kind:      a.Kind,
		Task:      a.Task,
		Path:      path,
		Features:  append([]string(nil), a.Features...),
		Threshold: a.Threshold,
		engine:    engine,
	}
	if m.Task == data.TaskBinomial && m.Threshold == 0 {
		m.Threshold = defaultThreshold
	}
	return m, nil
}

func (b *localBackend) predict(ctx context.Context, m *Model, row data.Row) (*data.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine := m.engine
	if engine == nil {
		return nil, errors.New("model handle has no local engine")
	}
	if lg, ok := engine.(*models.LightGBMCLI); ok {
		engine = lg.WithContext(ctx)
	}
	out, err := engine.Predict(features.Vectorize(row))
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s returned %d values for one row", engine.Name(), len(out))
	}
	return newPrediction(m, out[0]), nil
}

func (b *localBackend) close() error {
	return os.RemoveAll(b.scratch)
}
