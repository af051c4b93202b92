package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
)

// Typed errors for mapping to HTTP status codes in the delivery layer.
var (
	ErrValidation = errors.New("validation failed")

	ErrUpstreamUnavailable       = integration.ErrUpstreamUnavailable
	ErrMalformedUpstreamResponse = integration.ErrMalformedUpstreamResponse
	ErrNotFound                  = integration.ErrNotFound
	ErrInternalComputation       = analyzer.ErrInternalComputation
)

// ValidationError lists the request fields that are missing or invalid.
type ValidationError struct {
	Message string
	Fields  []string
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// requireFields returns a ValidationError naming every blank field, or nil.
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return NewValidationError("missing required fields", missing...)
	}
	return nil
}

// resolveMaxScore applies def when v is nil and rejects non-positive values.
func resolveMaxScore(v *float64, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	if *v <= 0 {
		return 0, NewValidationError("max_score must be greater than 0", "max_score")
	}
	return *v, nil
}
