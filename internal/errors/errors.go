package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Nook error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrAmbiguousName  ErrorCode = "AMBIGUOUS_NAME"  // 409
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// NookError represents a structured error with code, status, and details.
type NookError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *NookError {
	return &NookError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a workspace cannot be found.
func NewNotFound(identifier string) *NookError {
	return &NookError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("workspace not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *NookError {
	return &NookError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAmbiguousName creates a 409 error when a name matches several workspaces.
func NewAmbiguousName(name string, ids []string) *NookError {
	return &NookError{
		Code:    ErrAmbiguousName,
		Status:  409,
		Message: fmt.Sprintf("name %q matches %d workspaces; address it by id", name, len(ids)),
		Details: map[string]any{"name": name, "ids": ids},
	}
}

// NewCancelled creates a 499 error for an operation aborted by its caller.
func NewCancelled(op string) *NookError {
	return &NookError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *NookError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &NookError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a NookError with the given code.
func Is(err error, code ErrorCode) bool {
	var nErr *NookError
	if stderrors.As(err, &nErr) {
		return nErr.Code == code
	}
	return false
}

// As reports whether err is a NookError and returns it.
func As(err error) (*NookError, bool) {
	var nErr *NookError
	if stderrors.As(err, &nErr) {
		return nErr, true
	}
	return nil, false
}
