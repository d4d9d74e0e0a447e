package runtime

import "fmt"

// Request and response bodies of the scoring server.

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type LoadRequest struct {
	Path string `json:"path" binding:"required"`
}

type PredictRequest struct {
	ModelID string    `json:"model_id" binding:"required"`
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

const (
	KindBadRequest     = "bad_request"
	KindNotFound       = "not_found"
	KindModelLoad      = "model_load"
	KindSchemaMismatch = "schema_mismatch"
	KindPrediction     = "prediction"
	KindUnauthorized   = "unauthorized"
)

// APIError is a non-2xx answer from the scoring server.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scoring server: %d %s: %s", e.Status, e.Kind, e.Message)
}
