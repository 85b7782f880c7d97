// Package errors provides the unified error type and factory functions for the
// JurisCompare engine.  Every layer (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information so that HTTP responses, CLI output, logs and metrics all agree on
// the failure kind and the offending identifier.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stack capture
// ─────────────────────────────────────────────────────────────────────────────

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout JurisCompare.
// It satisfies the standard error interface and supports wrapping so that
// errors.Is / errors.As / errors.Unwrap work across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeCaseNotFound, "decision not found").WithDetail("id=" + id)
//	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load rule entries")
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, safe for API responses.
	Message string

	// Detail carries the offending identifier (jurisdiction, factor, decision id).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is captured by the factories and never rendered by Error().
	Stack string
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status mapped to the error code.
func (e *AppError) HTTPStatus() int {
	return HTTPStatusForCode(e.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fluent builders
// ─────────────────────────────────────────────────────────────────────────────

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithDetailf is WithDetail with fmt formatting.
func (e *AppError) WithDetailf(format string, args ...interface{}) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithCause returns a shallow copy of the receiver with Cause set.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError around an existing error.  A nil err yields nil.
// When code is CodeUnknown and err already carries an AppError, its code is kept.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		code = GetCode(err)
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether err's chain holds one of the not-found codes.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case ErrCodeNotFound, ErrCodeCaseNotFound, ErrCodeUnknownJurisdiction:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode of the first *AppError in err's chain.
// A nil error yields CodeOK and a foreign error yields CodeUnknown.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// As is re-exported so callers importing this package under the name errors
// do not need a second import of the standard library package.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is re-exported for the same reason as As.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factories
// ─────────────────────────────────────────────────────────────────────────────

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs an ErrCodeBadRequest AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// Conflict constructs an ErrCodeConflict AppError.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Stack: captureStack(1)}
}

// Unavailable constructs an ErrCodeServiceUnavailable AppError.
func Unavailable(message string) *AppError {
	return &AppError{Code: ErrCodeServiceUnavailable, Message: message, Stack: captureStack(1)}
}

//Personal.AI order the ending
