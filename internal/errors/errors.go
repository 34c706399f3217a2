// Package errors provides custom error types for the DevAI workbench.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyRequest    = errors.New("neither prompt nor messages supplied")
	ErrInvalidMessage  = errors.New("invalid message shape")
	ErrProviderFailed  = errors.New("model provider request failed")
	ErrContextOverflow = errors.New("context length exceeded")
)

// ValidationError represents malformed or missing request input.
// It is surfaced immediately to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ValidationError) Is(target error) bool {
	if target == ErrEmptyRequest || target == ErrInvalidMessage {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError represents a failure of the model-call collaborator
// (network, rate limit, auth). The orchestrator recovers from it via
// single-level escalation before it ever reaches the user.
type ProviderError struct {
	Model   string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("provider error [%s]: %s", e.Model, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ProviderError) Is(target error) bool {
	if target == ErrProviderFailed {
		return true
	}
	_, ok := target.(*ProviderError)
	return ok
}

// NewProviderError creates a new ProviderError
func NewProviderError(model, message string, err error) *ProviderError {
	return &ProviderError{Model: model, Message: message, Err: err}
}

// ContextOverflowError signals that the combined prompt and attached
// context exceed the provider's input limit. Retrying with the same
// input cannot succeed, so it is never escalated.
type ContextOverflowError struct {
	Model   string
	Message string
}

func (e *ContextOverflowError) Error() string {
	if e.Message == "" {
		return "context length exceeded: reduce the attached file set and try again"
	}
	return fmt.Sprintf("context length exceeded: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ContextOverflowError) Is(target error) bool {
	if target == ErrContextOverflow {
		return true
	}
	_, ok := target.(*ContextOverflowError)
	return ok
}

// NewContextOverflowError creates a new ContextOverflowError
func NewContextOverflowError(model, message string) *ContextOverflowError {
	return &ContextOverflowError{Model: model, Message: message}
}

// TimeoutError represents a provider request timeout. Timeouts count as
// provider errors for escalation purposes.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is allows comparison with ProviderError since timeouts escalate the same way
func (e *TimeoutError) Is(target error) bool {
	if target == ErrProviderFailed {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProviderError reports whether err should trigger orchestrator
// escalation. Context overflow is deliberately excluded.
func IsProviderError(err error) bool {
	if IsContextOverflow(err) {
		return false
	}
	var pe *ProviderError
	var te *TimeoutError
	return errors.As(err, &pe) || errors.As(err, &te)
}

// IsContextOverflow checks if an error is a context overflow error
func IsContextOverflow(err error) bool {
	var ce *ContextOverflowError
	return errors.As(err, &ce)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// overflowMarkers are substrings upstream providers use to signal that
// the request exceeded the model's input window.
var overflowMarkers = []string{
	"context_length_exceeded",
	"maximum context length",
	"context window",
	"too many tokens",
}

// LooksLikeContextOverflow inspects a raw upstream error message for the
// recognizable context-length signals.
func LooksLikeContextOverflow(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range overflowMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
