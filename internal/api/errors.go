package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error describes a failed remote call. Connectivity marks transport-level
// failures (no network, timeout, refused connection); StatusCode is set when
// the server answered with an HTTP error.
type Error struct {
	Op           string
	StatusCode   int
	Connectivity bool
	Err          error
}

func (e *Error) Error() string {
	switch {
	case e.Connectivity:
		return fmt.Sprintf("%s: connectivity failure: %v", e.Op, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether the error stems from the network being
// unavailable. Such operations stay queued and retry on reconnect.
func IsConnectivity(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Connectivity
}

// IsAuth reports whether the server rejected the call for missing or expired
// credentials. Such operations stay queued and retry once re-authenticated.
func IsAuth(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsGone reports whether the server indicated the operation's target no
// longer exists or the request can never succeed as written. Such operations
// are pruned as moot instead of retrying forever.
func IsGone(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound, http.StatusConflict, http.StatusGone, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}
