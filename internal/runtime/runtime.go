package runtime

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"winescore/internal/config"
	"winescore/internal/data"
	"winescore/internal/features"
	"winescore/internal/models"
)

// Version is reported by the scoring server and checked by remote runtimes.
// Runtimes only talk to servers with the same major version.
const Version = "v1.0.0"

// Model is a loaded predictor handle. Handles from a remote runtime carry no
// engine and are only meaningful to the server that issued them.
type Model struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Task      string   `json:"task"`
	Path      string   `json:"path"`
	Features  []string `json:"features,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`

	engine models.Model
}

type backend interface {
	name() string
	load(ctx context.Context, path string) (*Model, error)
	predict(ctx context.Context, m *Model, row data.Row) (*data.Prediction, error)
	close() error
}

type Runtime struct {
	cfg     config.RuntimeConfig
	logger  *zap.Logger
	backend backend
}

func Init(ctx context.Context, cfg config.RuntimeConfig, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		b   backend
		err error
	)
	switch cfg.Backend {
	case config.BackendLocal, "":
		cfg.Backend = config.BackendLocal
		b, err = newLocalBackend()
	case config.BackendRemote:
		b, err = newRemoteBackend(ctx, cfg)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, &data.InitializationError{Backend: cfg.Backend, Err: err}
	}
	logger.Info("runtime ready", zap.String("backend", b.name()), zap.String("version", Version))
	return &Runtime{cfg: cfg, logger: logger, backend: b}, nil
}

func (rt *Runtime) Backend() string { return rt.backend.name() }

func (rt *Runtime) LoadModel(ctx context.Context, path string) (*Model, error) {
	m, err := rt.backend.load(ctx, path)
	if err != nil {
		if errors.Is(err, data.ErrModelLoad) {
			return nil, err
		}
		return nil, &data.ModelLoadError{Path: path, Err: err}
	}
	rt.logger.Info("model loaded",
		zap.String("id", m.ID),
		zap.String("name", m.Name),
		zap.String("kind", m.Kind),
		zap.String("task", m.Task),
		zap.Int("features", len(m.Features)),
	)
	return m, nil
}

func (rt *Runtime) Predict(ctx context.Context, m *Model, row data.Row) (*data.Prediction, error) {
	if m == nil {
		return nil, &data.PredictionError{Model: "<nil>", Err: errors.New("no model")}
	}
	if err := rt.checkSchema(m, row); err != nil {
		return nil, err
	}
	p, err := rt.backend.predict(ctx, m, row)
	if err != nil {
		if errors.Is(err, data.ErrSchemaMismatch) || errors.Is(err, data.ErrPrediction) {
			return nil, err
		}
		return nil, &data.PredictionError{Model: m.Name, Err: err}
	}
	rt.logger.Debug("prediction", zap.String("model", m.Name), zap.Float64("predict", p.Value()))
	return p, nil
}

// checkSchema rejects rows that cannot be scored positionally. Column names
// that differ from the trained ones are only fatal in strict mode; otherwise
// they are logged and the row is scored as given.
func (rt *Runtime) checkSchema(m *Model, row data.Row) error {
	if len(row.Columns) != len(row.Values) {
		return &data.SchemaMismatchError{
			Got:    row.Columns,
			Reason: fmt.Sprintf("row has %d columns and %d values", len(row.Columns), len(row.Values)),
		}
	}
	if len(m.Features) == 0 {
		return nil
	}
	if len(row.Values) != len(m.Features) {
		return &data.SchemaMismatchError{
			Expected: m.Features,
			Got:      row.Columns,
			Reason:   fmt.Sprintf("model expects %d features, row has %d", len(m.Features), len(row.Values)),
		}
	}
	if features.SameColumns(m.Features, row.Columns) {
		return nil
	}
	if rt.cfg.StrictSchema {
		return &data.SchemaMismatchError{
			Expected: m.Features,
			Got:      row.Columns,
			Reason:   "column names differ from trained features",
		}
	}
	rt.logger.Warn("row columns differ from trained features, scoring by position",
		zap.String("model", m.Name),
		zap.Strings("trained", m.Features),
		zap.Strings("row", row.Columns),
	)
	return nil
}

func (rt *Runtime) Close() error {
	err := rt.backend.close()
	_ = rt.logger.Sync()
	return err
}

func newPrediction(m *Model, v float64) *data.Prediction {
	if m.Task == data.TaskBinomial {
		label := 0.0
		if v >= m.Threshold {
			label = 1
		}
		return &data.Prediction{
			Model:   m.Name,
			Task:    m.Task,
			Columns: []string{"predict", "p0", "p1"},
			Values:  []float64{label, 1 - v, v},
		}
	}
	return &data.Prediction{
		Model:   m.Name,
		Task:    data.TaskRegression,
		Columns: []string{"predict"},
		Values:  []float64{v},
	}
}
