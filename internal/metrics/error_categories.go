package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// ErrorCategory represents a categorized error type for market-data requests
type ErrorCategory string

const (
	// NoError indicates a successful request
	NoError ErrorCategory = "none"

	// NetworkError indicates network-related issues (connection resets, refused connections, DNS)
	NetworkError ErrorCategory = "network_error"

	// TimeoutError indicates the request exceeded its deadline
	TimeoutError ErrorCategory = "timeout"

	// HTTPError indicates HTTP-level errors (non-2xx status codes other than 429)
	HTTPError ErrorCategory = "http_error"

	// RateLimited indicates the API answered 429
	RateLimited ErrorCategory = "rate_limited"

	// DecodeError indicates the payload could not be decoded
	DecodeError ErrorCategory = "decode_error"

	// Canceled indicates the caller gave up on the request
	Canceled ErrorCategory = "canceled"

	// UnknownError indicates unclassified errors
	UnknownError ErrorCategory = "unknown_error"
)

// statusCoder is implemented by errors that carry an HTTP status
type statusCoder interface {
	StatusCode() int
}

// timeoutError is implemented by errors that know whether they were caused by a timeout
type timeoutError interface {
	Timeout() bool
}

// networkFailure is implemented by errors raised before any HTTP response was received
type networkFailure interface {
	NetworkFailure() bool
}

// decodeFailure is implemented by errors raised while decoding a payload
type decodeFailure interface {
	DecodeFailure() bool
}

var networkMessages = []string{
	"connection reset by peer",
	"connection refused",
	"no such host",
	"i/o timeout",
}

// CategorizeError takes an error and returns the appropriate ErrorCategory
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return NoError
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if sc.StatusCode() == http.StatusTooManyRequests {
			return RateLimited
		}
		return HTTPError
	}

	var te timeoutError
	if errors.As(err, &te) && te.Timeout() {
		return TimeoutError
	}

	var nf networkFailure
	if errors.As(err, &nf) && nf.NetworkFailure() {
		return NetworkError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NetworkError
	}

	var df decodeFailure
	if errors.As(err, &df) && df.DecodeFailure() {
		return DecodeError
	}

	// Fall back to well-known messages for errors that lost their type
	errStr := err.Error()
	for _, s := range networkMessages {
		if strings.Contains(errStr, s) {
			return NetworkError
		}
	}

	return UnknownError
}
