package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingLink marks a record that lacks a URL needed for the next call.
var ErrMissingLink = errors.New("upstream: missing resource link")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
	URL     string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("upstream %s: status %d: %s", e.URL, e.Status, e.Message)
}

// TimeoutError is returned when a single call exceeds the client timeout.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream %s: timed out: %v", e.URL, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError covers connection failures and unreadable bodies.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsTransient reports whether err is worth another attempt. Client errors
// other than 408 and 429 are final; everything else is retried.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrMissingLink) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == http.StatusRequestTimeout, se.Status == http.StatusTooManyRequests:
			return true
		case se.Status >= 400 && se.Status < 500:
			return false
		}
	}
	return true
}
