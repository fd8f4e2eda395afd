package providers

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for provider attempts.
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the provider returned invalid/malformed data.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorNotFound indicates the CPF does not exist in the source.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorOutage indicates the provider is unreachable or returned a
	// non-success status.
	ErrorOutage ErrorCategory = "outage"

	// ErrorInternal indicates an unexpected failure inside the adapter.
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with normalized categorization. The
// resolver only ever uses these to advance the chain; they are never surfaced
// to callers individually.
type ProviderError struct {
	Category ErrorCategory
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewError creates a normalized provider error.
func NewError(category ErrorCategory, provider, message string, err error) *ProviderError {
	return &ProviderError{
		Category: category,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// GetCategory extracts the category from an error, defaulting to ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

// ErrAllProvidersFailed marks total exhaustion of the chain. The resolver
// treats it as the trigger for synthesis, not as a caller-facing error.
var ErrAllProvidersFailed = errors.New("all providers failed")
