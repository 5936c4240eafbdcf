package backend

import (
	"errors"
	"fmt"
)

// bodyPreviewLimit caps how much of an error response body is carried in
// Error.BodyPreview. Enough to diagnose, small enough to log.
const bodyPreviewLimit = 512

// Error represents a failed outbound call to the analytics backend.
//
// A StatusCode of zero means no HTTP response was received at all (DNS
// failure, connection refused, timeout); any other value is the status of a
// response the backend actually sent. The two cases get distinct messages so
// "backend said no" is never confused with "backend unreachable".
type Error struct {
	StatusCode  int
	Message     string
	BodyPreview string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend: unreachable: %s", e.Message)
	}
	if e.BodyPreview != "" {
		return fmt.Sprintf("backend: HTTP %d: %s: %s", e.StatusCode, e.Message, e.BodyPreview)
	}
	return fmt.Sprintf("backend: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnreachable returns true if err means no response was received.
func IsUnreachable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == 0
}

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == 401
}

// IsForbidden returns true if the error is a 403.
func IsForbidden(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == 403
}
