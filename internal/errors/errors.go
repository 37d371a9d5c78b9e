package errors

import (
	"errors"
	"fmt"
	"maps"
)

// MetaReason is the metadata key holding a stable, machine readable failure name
const MetaReason = "reason"

// Error is the arena's error value. Code says which class of failure it is,
// the reason (kept in Meta) says which rule was broken.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error renders "CODE: message", or "CODE(reason): message" when a reason is set.
// The cause, if any, is appended.
func (e *Error) Error() string {
	head := e.Code.String()
	if reason, ok := e.Meta[MetaReason].(string); ok && reason != "" {
		head += "(" + reason + ")"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", head, e.Message, e.Cause)
	}
	return head + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	other, ok := asError(target)
	return ok && other.Code == e.Code
}

// WithMeta attaches a key/value to the error and returns it for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 1)
	}
	e.Meta[key] = value
	return e
}

// WithReason tags the error with a stable failure name such as "room_full"
func (e *Error) WithReason(reason string) *Error {
	return e.WithMeta(MetaReason, reason)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap annotates err with message. An *Error anywhere in the chain lends its
// code and a copy of its metadata; anything else becomes CodeInternal.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if inner, ok := asError(err); ok {
		return &Error{Code: inner.Code, Message: message, Cause: err, Meta: maps.Clone(inner.Meta)}
	}
	return &Error{Code: CodeInternal, Message: message, Cause: err}
}

func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode is Wrap with the code overridden
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Shorthands for the codes the arena returns.

func NotFound(message string) *Error { return New(CodeNotFound, message) }
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func PermissionDenied(message string) *Error { return New(CodePermissionDenied, message) }
func PermissionDeniedf(format string, args ...any) *Error {
	return Newf(CodePermissionDenied, format, args...)
}

func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }
func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

func Unavailable(message string) *Error { return New(CodeUnavailable, message) }
func Unavailablef(format string, args ...any) *Error {
	return Newf(CodeUnavailable, format, args...)
}

func Internal(message string) *Error { return New(CodeInternal, message) }
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}
