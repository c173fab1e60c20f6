package correlato

import (
	"errors"
	"fmt"

	"github.com/soundprediction/correlato/pkg/output"
)

var (
	// ErrInputUnreadable indicates the input could not be read or decoded.
	ErrInputUnreadable = output.ErrInputUnreadable

	// ErrOutputUnwritable indicates the result could not be written.
	ErrOutputUnwritable = output.ErrOutputUnwritable

	// ErrInvalidOptions indicates analysis options failed validation.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrEmbedding indicates the embedding provider failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrTermWeighting indicates the term-weight provider failed.
	ErrTermWeighting = errors.New("term weighting failed")
)

// ValidationError describes one invalid option.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidOptions.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidOptions
}
