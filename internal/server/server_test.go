package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winescore/internal/config"
	"winescore/internal/data"
	wineruntime "winescore/internal/runtime"
	"winescore/internal/testutil"
)

func setupRouter(t *testing.T, cfg config.ServerConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rt, err := wineruntime.Init(context.Background(), config.RuntimeConfig{Backend: config.BackendLocal}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	s, err := New(rt, cfg, nil)
	require.NoError(t, err)
	return s.Router()
}

func doJSON(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loadWine(t *testing.T, r http.Handler, path string) wineruntime.Model {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/models", wineruntime.LoadRequest{Path: path})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m wineruntime.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})

	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var h wineruntime.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.Equal(t, wineruntime.Version, h.Version)
}

func TestLoadAndPredict(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})
	m := loadWine(t, r, testutil.WriteWineModel(t))
	assert.Equal(t, "DRF_wine", m.Name)
	assert.NotEmpty(t, m.ID)

	w := doJSON(r, http.MethodPost, "/predict", wineruntime.PredictRequest{ModelID: m.ID, Values: testutil.WineSample})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p data.Prediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, []string{"predict"}, p.Columns)
	assert.Equal(t, testutil.WineExpected, p.Value())
}

func TestLoadMissingModel(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})

	w := doJSON(r, http.MethodPost, "/models", wineruntime.LoadRequest{Path: filepath.Join(t.TempDir(), "nope.gob")})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var e wineruntime.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, wineruntime.KindModelLoad, e.Kind)

	w = doJSON(r, http.MethodPost, "/models", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictWrongLength(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})
	m := loadWine(t, r, testutil.WriteWineModel(t))

	w := doJSON(r, http.MethodPost, "/predict", wineruntime.PredictRequest{ModelID: m.ID, Values: testutil.WineSample[:10]})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var e wineruntime.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, wineruntime.KindSchemaMismatch, e.Kind)
}

func TestPredictShortRowForUnlabeledModel(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})
	m := loadWine(t, r, testutil.WriteUnlabeledTree(t))
	assert.Empty(t, m.Features)

	w := doJSON(r, http.MethodPost, "/predict", wineruntime.PredictRequest{ModelID: m.ID, Values: []float64{7, 0.27, 0.36}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var e wineruntime.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, wineruntime.KindSchemaMismatch, e.Kind)
}

func TestPredictUnknownModel(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})

	w := doJSON(r, http.MethodPost, "/predict", wineruntime.PredictRequest{ModelID: "missing", Values: testutil.WineSample})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteModel(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{})
	m := loadWine(t, r, testutil.WriteWineModel(t))

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/models/"+m.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/models/"+m.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/models/"+m.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/models/"+m.ID, nil).Code)
}

func TestCacheEvictsOldest(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{CacheSize: 1})
	first := loadWine(t, r, testutil.WriteWineModel(t))
	second := loadWine(t, r, testutil.WriteWineClassifier(t))

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/models/"+first.ID, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/models/"+second.ID, nil).Code)
}

func TestAPIKey(t *testing.T) {
	r := setupRouter(t, config.ServerConfig{APIKey: "s3cret"})

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health", nil).Code)

	w := doJSON(r, http.MethodPost, "/models", wineruntime.LoadRequest{Path: testutil.WriteWineModel(t)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/models", wineruntime.LoadRequest{Path: testutil.WriteWineModel(t)}, "X-API-Key", "s3cret")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func newServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rt, err := wineruntime.Init(context.Background(), config.RuntimeConfig{Backend: config.BackendLocal}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	s, err := New(rt, config.ServerConfig{}, nil)
	require.NoError(t, err)
	return s
}

func TestServeReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = newServer(t).Serve(ctx, busy.Addr().String())
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, newServer(t).Serve(ctx, "127.0.0.1:0"))
}
