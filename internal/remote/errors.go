package remote

import (
	"errors"
	"fmt"
)

// Error is any failure reported by (or on the way to) the HR API. Status 0
// means the request never got an HTTP response (DNS, dial, timeout). The
// reconciliation layer keys its fallback policy off Status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote: %s", e.Message)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports a 404: the endpoint (or record) does not exist remotely.
// This is the "safe to fall back silently" case.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Status == 404
}

// IsUnavailable reports a transport-level failure with no HTTP status.
func IsUnavailable(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Status == 0
}

// IsServerError reports a 5xx from the API itself.
func IsServerError(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Status >= 500
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
