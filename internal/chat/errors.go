// Package chat answers chatbot messages, routing risk questions to the
// prediction pipeline and everything else to a text generation API.
package chat

import (
	"errors"
	"fmt"
)

// ErrUpstreamService indicates the text generation API failed or returned
// an unusable payload.
var ErrUpstreamService = errors.New("upstream service error")

// UpstreamServiceError describes a failed text generation call
type UpstreamServiceError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamServiceError) Error() string {
	switch {
	case e.Cause != nil && e.StatusCode != 0:
		return fmt.Sprintf("text generation API error: %d: %v", e.StatusCode, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("text generation API error: %v", e.Cause)
	default:
		return fmt.Sprintf("text generation API error: %d - %s", e.StatusCode, e.Body)
	}
}

func (e *UpstreamServiceError) Unwrap() error { return e.Cause }

func (e *UpstreamServiceError) Is(target error) bool { return target == ErrUpstreamService }
