package errors

import (
	"errors"
)

// As and Is forward to the standard library so callers only import this package.
func As(err error, target **Error) bool { return errors.As(err, target) }
func Is(err, target error) bool       { return errors.Is(err, target) }

// GetCode returns the code of the first *Error in the chain. nil is CodeOK and
// a foreign error is CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeInternal
}

func GetMeta(err error) map[string]any {
	if e, ok := asError(err); ok {
		return e.Meta
	}
	return nil
}

// GetReason returns the failure name attached with WithReason, or ""
func GetReason(err error) string {
	reason, _ := GetMeta(err)[MetaReason].(string)
	return reason
}

// GetMessage returns the arena message without code or cause, falling back to
// err.Error() for foreign errors.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func hasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

func IsNotFound(err error) bool           { return hasCode(err, CodeNotFound) }
func IsInvalidArgument(err error) bool    { return hasCode(err, CodeInvalidArgument) }
func IsAlreadyExists(err error) bool      { return hasCode(err, CodeAlreadyExists) }
func IsPermissionDenied(err error) bool   { return hasCode(err, CodePermissionDenied) }
func IsFailedPrecondition(err error) bool { return hasCode(err, CodeFailedPrecondition) }
func IsUnavailable(err error) bool        { return hasCode(err, CodeUnavailable) }
func IsInternal(err error) bool           { return hasCode(err, CodeInternal) }
