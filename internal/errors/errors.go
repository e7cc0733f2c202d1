package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidID indicates the path carries no numeric resource id
	InvalidID ErrorCode = "INVALID_ID"
	// InvalidBody indicates the body is not a well-formed user object
	InvalidBody ErrorCode = "INVALID_BODY"
	// StoreUnavailable indicates a store connection could not be opened
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// StoreFailure indicates a statement failed against the store
	StoreFailure ErrorCode = "STORE_FAILURE"
	// NotFound indicates a targeted operation matched zero rows
	NotFound ErrorCode = "NOT_FOUND"
	// RouteNotMatched indicates no route accepted the method and path
	RouteNotMatched ErrorCode = "ROUTE_NOT_MATCHED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a usersvc error with a stable code and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// New creates a new Error
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the first *Error in err's chain.
// Errors from outside the package report InternalError; nil reports "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsParse reports whether err stems from a malformed request.
func IsParse(err error) bool {
	switch CodeOf(err) {
	case InvalidID, InvalidBody:
		return true
	}
	return false
}

// IsStore reports whether err stems from the relational store.
func IsStore(err error) bool {
	switch CodeOf(err) {
	case StoreUnavailable, StoreFailure:
		return true
	}
	return false
}
