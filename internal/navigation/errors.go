package navigation

import "errors"

// ErrStaleResponse is returned by ApplyRoute for a response that was
// overtaken by a newer one or by ClearRoute. It is not user-facing.
var ErrStaleResponse = errors.New("stale route response")

var errNoRoute = errors.New("empty directions result")

// ValidationError reports missing route input. The action is blocked and
// not retried.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Please enter both location and destination"
}

// ProviderError wraps a failed routing call. The previous route is kept.
type ProviderError struct {
	Origin      string
	Destination string
	Err         error
}

func (e *ProviderError) Error() string {
	return "directions request failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// PreconditionError reports an action that needs state that is missing
type PreconditionError struct {
	Action string
	Reason string
}

func (e *PreconditionError) Error() string {
	return "cannot " + e.Action + ": " + e.Reason
}

// LocationError reports a refresh tick that could not get a position. It is
// logged only; navigation continues.
type LocationError struct {
	Err error
}

func (e *LocationError) Error() string {
	return "position unavailable: " + e.Err.Error()
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// IsUserFacing reports whether err should be shown to the user
func IsUserFacing(err error) bool {
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return false
	}
	var le *LocationError
	return !errors.As(err, &le)
}
