package api

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound indicates origin or destination could not be geocoded
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServerError indicates a server-side error
	ErrServerError = errors.New("server error")

	// ErrTimeout indicates the request timed out
	ErrTimeout = errors.New("request timed out")

	// ErrNoResults indicates no route exists between origin and destination
	ErrNoResults = errors.New("no route found")

	// ErrDenied indicates the API key was rejected
	ErrDenied = errors.New("request denied")

	// ErrQuotaExceeded indicates the API key ran out of quota
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// APIError represents a non-200 HTTP response from the maps API
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error %d: %s (endpoint: %s)", e.StatusCode, e.Status, e.Endpoint)
}

// Is implements errors.Is for APIError
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrServerError:
		return e.StatusCode >= 500
	case ErrInvalidRequest:
		return e.StatusCode == 400
	case ErrDenied:
		return e.StatusCode == 401 || e.StatusCode == 403
	case ErrQuotaExceeded:
		return e.StatusCode == 429
	}
	return false
}

// NewAPIError creates a new API error
func NewAPIError(statusCode int, status, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Endpoint:   endpoint,
	}
}

// StatusError is returned when the HTTP call succeeded but the Directions
// body carries a status other than OK.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("directions %s: %s", e.Status, e.Message)
	}
	return "directions " + e.Status
}

// Is implements errors.Is for StatusError
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == StatusNotFound
	case ErrNoResults:
		return e.Status == StatusZeroResults
	case ErrInvalidRequest:
		return e.Status == StatusInvalidRequest ||
			e.Status == StatusMaxWaypointsExceeded ||
			e.Status == StatusMaxRouteLength
	case ErrDenied:
		return e.Status == StatusRequestDenied
	case ErrQuotaExceeded:
		return e.Status == StatusOverQueryLimit || e.Status == StatusOverDailyLimit
	case ErrServerError:
		return e.Status == StatusUnknownError
	}
	return false
}

// statusError maps a Directions status to an error, nil for OK
func statusError(status, message string) error {
	if status == StatusOK {
		return nil
	}
	return &StatusError{Status: status, Message: message}
}
