package api

import (
	"errors"
	"fmt"
	"net/url"
	"syscall"
)

// ErrInvalidPayload is returned when a backend response does not match the
// expected task schema.
var ErrInvalidPayload = errors.New("invalid backend payload")

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.URL, e.Code)
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsNotFound(err error) bool { return StatusCode(err) == 404 }

// IsConnRefused reports whether the backend could not be reached at all.
func IsConnRefused(err error) bool { return errors.Is(err, syscall.ECONNREFUSED) }

// IsTransport reports whether the request never produced a response, e.g.
// DNS or TLS failures.
func IsTransport(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}
