package bpydoc

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic across the application: storage, extraction
// and CLI layers all map their failures onto one of these codes so callers
// can react without inspecting implementation-specific error types.
const (
	ECONFLICT       = "conflict"        // duplicate identifier
	EINTERNAL       = "internal"        // internal error
	EINVALID        = "invalid"         // record validation failed
	ENOTFOUND       = "not_found"       // entity does not exist
	EUNREADABLE     = "unreadable"      // source file cannot be read
	EMALFORMED      = "malformed"       // markup cannot be parsed
	ENOENTITY       = "no_entity"       // page has no recognized entity
	EEMPTYSELECTION = "empty_selection" // selector matched zero files
	ESTREAMWRITE    = "stream_write"    // output stream cannot be written
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("bpydoc error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
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
