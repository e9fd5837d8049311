// Package apperr holds error types shared across components.
package apperr

import "fmt"

// ProviderError marks a failed call to an external collaborator (payment
// provider, chat channel, mail relay). Callers present a user-facing retry
// message instead of the raw error; there is no automatic retry loop.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
