package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError covers empty, oversized or otherwise malformed user input.
// It is always turned into a user-facing message, never a crash.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError is surfaced verbatim to the caller.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func Permissionf(format string, args ...any) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError carries the status and detail of a failed generative API call.
// End users only ever see a generic unavailability message; the detail is for
// operator logs.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upstream: %s", e.Detail)
}
