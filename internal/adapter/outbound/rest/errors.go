package rest

import (
	"errors"
	"fmt"
)

// APIError is a non-success response from the remote catalog. The status
// code is carried for diagnostics only; callers treat every APIError the
// same way.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog server returned %d: %s", e.StatusCode, e.Body)
}

// IsAPIError reports whether err wraps a remote non-success response, as
// opposed to a transport-level failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
