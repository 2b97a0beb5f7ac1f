// Package api - errors.go
// Centralized, comparable error values for the NextCut REST client.
package api

import "fmt"

// aerr is a lightweight comparable error type.
// Using constants of this type allows errors.Is to work as expected.
type aerr string

func (e aerr) Error() string { return string(e) }

var (
	// ErrUnauthorized means the session is gone; the credential store
	// has already been cleared when this is returned.
	ErrUnauthorized = aerr("session expired")
	ErrNoToken      = aerr("not signed in")
)

// StatusError carries a non-2xx response with the server-provided
// message when one was present in the body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("nextcut api: status %d", e.Code)
}
