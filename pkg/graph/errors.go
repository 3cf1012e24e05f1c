package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotAuthenticated is returned before the operator has completed the
// OAuth flow. Intake treats it like any other fetch failure.
var ErrNotAuthenticated = errors.New("no valid access token available")

// RequestError carries the Graph HTTP status for callers that care about the
// failure class. Transient upstream errors (429/5xx) are not retried here;
// duplicate webhook delivery outside the suppression window is the retry path.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("graph request failed (%d): %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a Graph 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsAuthError reports whether err is a Graph 401/403 (expired or
// insufficient credential).
func IsAuthError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && (re.Status == http.StatusUnauthorized || re.Status == http.StatusForbidden)
}

// IsTransient reports whether err looks like a provider rate-limit or 5xx.
func IsTransient(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && (re.Status == http.StatusTooManyRequests || re.Status >= 500)
}
