package amazondomain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass drives the engine's retry decision for a failed API call.
type ErrorClass string

const (
	// ErrorClassUnauthorized is a permanent credential problem. Not retryable.
	ErrorClassUnauthorized ErrorClass = "unauthorized"
	// ErrorClassThrottled means the API rejected the call for rate reasons.
	// Retryable; the outer rate limiter provides the slowdown.
	ErrorClassThrottled ErrorClass = "throttled"
	// ErrorClassExpiredToken means the access token lapsed. Retryable; the
	// token manager refreshes it before the next attempt.
	ErrorClassExpiredToken ErrorClass = "expired_token"
	// ErrorClassServer is a vendor-side 5xx. Retryable.
	ErrorClassServer ErrorClass = "server"
	// ErrorClassUnknown is anything else. Retryable up to the job's budget.
	ErrorClassUnknown ErrorClass = "unknown"
)

// APIError is a classified failure from the Ads API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amazon ads api: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// Class maps the HTTP status and vendor code onto a retry class.
func (e *APIError) Class() ErrorClass {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrorClassExpiredToken
	case e.StatusCode == http.StatusForbidden:
		return ErrorClassUnauthorized
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrorClassThrottled
	case e.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnknown
	}
}

// Classify extracts the error class from any error returned by the client.
// Transport errors that never reached the API classify as unknown.
func Classify(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class()
	}
	return ErrorClassUnknown
}
