package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/mod/semver"

	"winescore/internal/config"
	"winescore/internal/data"
)

// remoteBackend talks to a scoring server. Models it loads are unloaded on close.
type remoteBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu     sync.Mutex
	loaded []string
}

func newRemoteBackend(ctx context.Context, cfg config.RuntimeConfig) (*remoteBackend, error) {
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", cfg.URL, err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	b := &remoteBackend{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}

	var h HealthResponse
	if err := b.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, fmt.Errorf("health check %s: %w", cfg.URL, err)
	}
	if !semver.IsValid(h.Version) {
		return nil, fmt.Errorf("server reports invalid version %q", h.Version)
	}
	if semver.Major(h.Version) != semver.Major(Version) {
		return nil, fmt.Errorf("server version %s is incompatible with client %s", h.Version, Version)
	}
	return b, nil
}

func (b *remoteBackend) name() string { return config.BackendRemote }

func (b *remoteBackend) load(ctx context.Context, path string) (*Model, error) {
	var m Model
	if err := b.do(ctx, http.MethodPost, "/models", LoadRequest{Path: path}, &m); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.loaded = append(b.loaded, m.ID)
	b.mu.Unlock()
	return &m, nil
}

func (b *remoteBackend) predict(ctx context.Context, m *Model, row data.Row) (*data.Prediction, error) {
	req := PredictRequest{ModelID: m.ID, Columns: row.Columns, Values: row.Values}
	var p data.Prediction
	if err := b.do(ctx, http.MethodPost, "/predict", req, &p); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindSchemaMismatch {
			return nil, &data.SchemaMismatchError{Expected: m.Features, Got: row.Columns, Reason: apiErr.Message}
		}
		return nil, err
	}
	return &p, nil
}

func (b *remoteBackend) close() error {
	b.mu.Lock()
	ids := b.loaded
	b.loaded = nil
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.client.Timeout)
	defer cancel()
	var err error
	for _, id := range ids {
		if e := b.do(ctx, http.MethodDelete, "/models/"+url.PathEscape(id), nil, nil); e != nil {
			var apiErr *APIError
			if errors.As(e, &apiErr) && apiErr.Status == http.StatusNotFound {
				continue
			}
			err = multierr.Append(err, fmt.Errorf("unload %s: %w", id, e))
		}
	}
	b.client.CloseIdleConnections()
	return err
}

func (b *remoteBackend) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.apiKey != "" {
		req.Header.Set("X-API-Key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Kind: e.Kind, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
