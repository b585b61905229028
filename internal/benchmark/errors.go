// internal/benchmark/errors.go
package benchmark

import (
	"errors"
	"fmt"
)

// Batch size bounds.
const (
	MinBatchSize = 1
	MaxBatchSize = 200
)

// Protocol errors: a well-formed response lacked a required field.
var (
	ErrMissingSession    = errors.New("no session ID received from key generation")
	ErrMissingCiphertext = errors.New("no encrypted data received from encryption step")
	ErrMissingPlaintext  = errors.New("no decrypted data received from decryption step")
)

// ProviderError is returned when the provider explicitly reports failure.
type ProviderError struct {
	Operation string
	Message   string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// TransportError wraps an error raised by the remote call itself.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InvalidBatchSizeError rejects a batch before any test runs.
type InvalidBatchSizeError struct {
	Requested int
	Min       int
	Max       int
}

func (e *InvalidBatchSizeError) Error() string {
	return fmt.Sprintf("batch size %d out of range [%d, %d]", e.Requested, e.Min, e.Max)
}

// ValidateBatchSize returns an *InvalidBatchSizeError when n is out of range.
func ValidateBatchSize(n int) error {
	if n < MinBatchSize || n > MaxBatchSize {
		return &InvalidBatchSizeError{Requested: n, Min: MinBatchSize, Max: MaxBatchSize}
	}
	return nil
}

// classify maps an error produced inside the runner to its FailureKind.
func classify(err error) FailureKind {
	var pe *ProviderError
	var te *TransportError
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrMissingSession), errors.Is(err, ErrMissingCiphertext), errors.Is(err, ErrMissingPlaintext):
		return FailureProtocol
	case errors.As(err, &pe):
		return FailureProvider
	case errors.As(err, &te):
		return FailureTransport
	default:
		return FailureTransport
	}
}
