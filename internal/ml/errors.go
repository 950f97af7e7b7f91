// Package ml provides the injury risk model ensemble: artifact loading,
// inference, calibration and the low-risk threshold override.
package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrModelLoad indicates a trained artifact is missing, malformed or
	// inconsistent with the others. It is fatal at startup.
	ErrModelLoad = errors.New("model load failed")

	// ErrInference indicates a model invocation failed for a request
	ErrInference = errors.New("inference failed")
)

// ModelLoadError describes why an artifact could not be loaded
type ModelLoadError struct {
	Artifact string
	Reason   string
	Cause    error
}

func (e *ModelLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model load error [%s]: %s: %v", e.Artifact, e.Reason, e.Cause)
	}
	return fmt.Sprintf("model load error [%s]: %s", e.Artifact, e.Reason)
}

func (e *ModelLoadError) Unwrap() error { return e.Cause }

func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }

// InferenceError describes a failed model call
type InferenceError struct {
	Model string
	Cause error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference error [%s]: %v", e.Model, e.Cause)
}

func (e *InferenceError) Unwrap() error { return e.Cause }

func (e *InferenceError) Is(target error) bool { return target == ErrInference }

// NewModelLoadError creates a new model load error
func NewModelLoadError(artifact, reason string, cause error) *ModelLoadError {
	return &ModelLoadError{
		Artifact: artifact,
		Reason:   reason,
		Cause:    cause,
	}
}

// NewInferenceError creates a new inference error
func NewInferenceError(model string, cause error) *InferenceError {
	return &InferenceError{
		Model: model,
		Cause: cause,
	}
}
