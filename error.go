package catmap

import (
	"errors"
	"fmt"
)

// Error codes used across the application.
const (
	EINVALID  = "invalid"  // validation failed
	EINTERNAL = "internal" // internal error
	ENOTFOUND = "notfound" // entity does not exist
	ETIMEOUT  = "timeout"  // operation exceeded its deadline
	EBLOCKED  = "blocked"  // page blocked or challenged by anti-bot defenses
	ENONAV    = "nonav"    // no strategy produced a navigation tree
	EEMPTY    = "empty"    // exploration completed with zero successful filters
	ETOGGLE   = "toggle"   // filter never reached the active state
	EREVERT   = "revert"   // filter could not be returned to inactive
)

// Error represents an application error with a machine-readable code and
// a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("catmap error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Returns EINTERNAL for non-application errors and an empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Returns a generic message for non-application errors and an empty
// string for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
