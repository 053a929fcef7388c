package calendar

import (
	"errors"
	"fmt"
)

// Code categorizes gateway call failures.
type Code string

const (
	// CodeNotFound means the service has no event with the given id where
	// the operation required one (update/delete).
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnauthorized means the credential was rejected (expired token,
	// revoked grant, insufficient scope).
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeRemoteUnavailable means the call never got a usable answer:
	// transport error, timeout, or a 5xx from the service.
	CodeRemoteUnavailable Code = "REMOTE_UNAVAILABLE"

	// CodeRemoteRejected means the service answered and said no
	// (validation failure, quota, any other 4xx).
	CodeRemoteRejected Code = "REMOTE_REJECTED"

	// CodeUnknown is the catch-all for failures that fit no other code.
	CodeUnknown Code = "UNKNOWN"
)

// CallError is a typed failure from a gateway call.
//
// Op names the call ("create", "update", "delete", "get"), Status carries
// the HTTP status when the service answered, and Err the underlying cause
// when it did not.
type CallError struct {
	Code   Code
	Op     string
	ID     string // event id, empty for create
	Status int    // HTTP status, 0 for transport failures
	Err    error
}

func (e *CallError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("calendar %s: %s: %v", e.Op, e.Code, e.Err)
	case e.ID != "":
		return fmt.Sprintf("calendar %s %s: %s (http %d)", e.Op, e.ID, e.Code, e.Status)
	default:
		return fmt.Sprintf("calendar %s: %s (http %d)", e.Op, e.Code, e.Status)
	}
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a gateway not-found failure.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsUnauthorized reports whether err is a credential failure.
func IsUnauthorized(err error) bool { return hasCode(err, CodeUnauthorized) }

// IsUnavailable reports whether err is a transport/availability failure.
// These are the failures worth retrying by re-running the whole operation.
func IsUnavailable(err error) bool { return hasCode(err, CodeRemoteUnavailable) }

func hasCode(err error, code Code) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
