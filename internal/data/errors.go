package data

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInitialization = errors.New("runtime initialization failed")
	ErrModelLoad      = errors.New("model load failed")
	ErrSchemaMismatch = errors.New("input schema mismatch")
	ErrPrediction     = errors.New("prediction failed")
)

type InitializationError struct {
	Backend string
	Err     error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize %s runtime: %v", e.Backend, e.Err)
}

func (e *InitializationError) Unwrap() error        { return e.Err }
func (e *InitializationError) Is(target error) bool { return target == ErrInitialization }

type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error        { return e.Err }
func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }

// SchemaMismatchError reports a row whose shape or column names do not fit
// what the consumer expects. Expected may be empty when only a length is known.
type SchemaMismatchError struct {
	Expected []string
	Got      []string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	msg := "schema mismatch: " + e.Reason
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf(" (expected [%s], got [%s])", strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
	}
	return msg
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

type PredictionError struct {
	Model string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("predict with %s: %v", e.Model, e.Err)
}

func (e *PredictionError) Unwrap() error        { return e.Err }
func (e *PredictionError) Is(target error) bool { return target == ErrPrediction }
