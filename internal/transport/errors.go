package transport

import (
	"fmt"
	"net/http"
)

// NetworkError is returned when no HTTP response was received:
// connection failures, DNS errors, per-attempt timeouts or caller cancellation.
type NetworkError struct {
	Op       string
	TimedOut bool
	Err      error
}

func (e *NetworkError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("market api %s: timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("market api %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request was abandoned because it ran past its deadline
func (e *NetworkError) Timeout() bool { return e.TimedOut }

// NetworkFailure marks the error for metrics categorisation
func (e *NetworkError) NetworkFailure() bool { return true }

// HTTPError is returned for any non-2xx response
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	const maxBody = 256
	body := e.Body
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	if len(body) == 0 {
		return fmt.Sprintf("market api: unexpected status %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("market api: unexpected status %d %s: %s", e.Status, http.StatusText(e.Status), body)
}

// StatusCode returns the HTTP status of the failed response
func (e *HTTPError) StatusCode() int { return e.Status }

// RateLimited reports whether the API answered 429
func (e *HTTPError) RateLimited() bool { return e.Status == http.StatusTooManyRequests }

// ResponseTooLargeError is returned when a response body exceeds the client's size limit
type ResponseTooLargeError struct {
	Op    string
	Limit int64
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("market api %s: response body exceeds %d bytes", e.Op, e.Limit)
}

// DecodeFailure marks the error for metrics categorisation
func (e *ResponseTooLargeError) DecodeFailure() bool { return true }
