package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// Battle rule violations map onto the general codes so callers can branch
// with the usual helpers (IsFailedPrecondition, IsPermissionDenied, ...).
const (
	StateViolation         = CodeFailedPrecondition
	AuthorizationViolation = CodePermissionDenied
	ValidationViolation    = CodeInvalidArgument
	ResourceUnavailable    = CodeUnavailable
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Violation names the rule category a code represents, or "" for codes
// that are not rule violations (storage failures and the like).
func (c Code) Violation() string {
	switch c {
	case StateViolation:
		return "state"
	case AuthorizationViolation:
		return "authorization"
	case ValidationViolation:
		return "validation"
	case ResourceUnavailable:
		return "resource"
	default:
		return ""
	}
}
