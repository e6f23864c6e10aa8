// internal/providers/errors.go
package providers

import (
	"errors"
	"fmt"
)

// ErrProductNotFound signals a provider reported "not found". Callers model
// this as a null result, distinct from fetch failures.
var ErrProductNotFound = errors.New("product not found")

// ErrMalformedResponse wraps decode failures at the provider boundary so
// normalization never has to shape-sniff a response.
var ErrMalformedResponse = errors.New("malformed provider response")

// APIError is a non-2xx reply from a provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s api: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s api: status %d: %s", e.Provider, e.StatusCode, e.Message)
}
