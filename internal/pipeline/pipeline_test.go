package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"winescore/internal/config"
	"winescore/internal/data"
	wineruntime "winescore/internal/runtime"
	"winescore/internal/server"
	"winescore/internal/testutil"
)

func wineConfig(modelPath string) *config.Config {
	return &config.Config{
		Runtime: config.RuntimeConfig{Backend: config.BackendLocal},
		Model:   config.ModelConfig{Path: modelPath},
		Input:   config.InputConfig{Values: append([]float64(nil), testutil.WineSample...)},
	}
}

func TestRunPrintsPrediction(t *testing.T) {
	var out bytes.Buffer
	pred, err := Run(context.Background(), wineConfig(testutil.WriteWineModel(t)), zap.NewNop(), &out)
	require.NoError(t, err)

	assert.Equal(t, testutil.WineExpected, pred.Value())
	assert.Contains(t, out.String(), "predict")
	assert.Contains(t, out.String(), "5.75")
	assert.Contains(t, out.String(), "[1 row x 1 column]")
}

func TestRunMissingModel(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), wineConfig(filepath.Join(t.TempDir(), "absent.gob")), zap.NewNop(), &out)

	var le *data.ModelLoadError
	require.True(t, errors.As(err, &le))
	assert.Empty(t, out.String())
}

func TestRunShortInput(t *testing.T) {
	cfg := wineConfig(testutil.WriteWineModel(t))
	cfg.Input.Values = cfg.Input.Values[:10]

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, zap.NewNop(), &out)
	assert.True(t, errors.Is(err, data.ErrSchemaMismatch))
	assert.Empty(t, out.String())
}

func TestRunRejectsShortRowForUnlabeledModel(t *testing.T) {
	cfg := wineConfig(testutil.WriteUnlabeledTree(t))
	cfg.Input.Values = []float64{7, 0.27, 0.36}

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, zap.NewNop(), &out)

	var sm *data.SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.True(t, errors.Is(err, data.ErrSchemaMismatch))
	assert.Empty(t, out.String())
}

func TestRunThroughScoringServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend, err := wineruntime.Init(context.Background(), config.RuntimeConfig{Backend: config.BackendLocal}, nil)
	require.NoError(t, err)
	defer backend.Close()
	s, err := server.New(backend, config.ServerConfig{}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	cfg := wineConfig(testutil.WriteWineModel(t))
	cfg.Runtime = config.RuntimeConfig{Backend: config.BackendRemote, URL: ts.URL}

	var out bytes.Buffer
	pred, err := Run(context.Background(), cfg, zap.NewNop(), &out)
	require.NoError(t, err)
	assert.Equal(t, testutil.WineExpected, pred.Value())
	assert.Contains(t, out.String(), "5.75")
}
