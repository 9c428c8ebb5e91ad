package api

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation requires a stored
// credential and none is present.
var ErrNotAuthenticated = errors.New("api: not authenticated")

// HTTPError reports a non-2xx response together with the body text the
// backend returned.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api: http status %d: %s", e.Status, e.Body)
}

// ValidationError reports a request rejected before any network call.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("api: missing required field %s", e.Field)
}
