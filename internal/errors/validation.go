package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects messages per field. It converts to an
// InvalidArgument Error carrying the fields under the "validation_errors" meta key.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// Error lists fields in name order so messages are stable
func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, field := range names {
		parts[i] = fmt.Sprintf("%s: %s", field, strings.Join(v.Fields[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// AddFieldError adds a message for field
func (v *ValidationError) AddFieldError(field, message string) {
	v.Fields[field] = append(v.Fields[field], message)
}

// AddFieldErrorf adds a formatted message for field
func (v *ValidationError) AddFieldErrorf(field, format string, args ...any) {
	v.AddFieldError(field, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any field failed
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// ToError converts to an InvalidArgument Error, nil when nothing failed
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta("validation_errors", v.Fields)
}

// ValidationBuilder accumulates field failures; Build returns nil when
// every check passed.
type ValidationBuilder struct {
	err    *ValidationError
	reason string
}

// NewValidationBuilder creates a new validation builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{err: NewValidationError()}
}

// Field adds a message for field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.err.AddFieldError(field, message)
	return vb
}

// Fieldf adds a formatted message for field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	vb.err.AddFieldErrorf(field, format, args...)
	return vb
}

// RequiredField marks field as missing
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField marks field as invalid for reason
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// WithReason tags the built error with a stable reason, see GetReason
func (vb *ValidationBuilder) WithReason(reason string) *ValidationBuilder {
	vb.reason = reason
	return vb
}

// Build returns the accumulated error, or nil
func (vb *ValidationBuilder) Build() error {
	err := vb.err.ToError()
	if err == nil {
		return nil
	}
	if vb.reason != "" {
		err = err.WithReason(vb.reason)
	}
	return err
}

// ValidateRequired checks that a string field is not blank
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateMaxBytes checks the encoded length of value, not its rune count
func ValidateMaxBytes(field, value string, maxBytes int, vb *ValidationBuilder) {
	if len(value) > maxBytes {
		vb.Fieldf(field, "must be at most %d bytes", maxBytes)
	}
}

// ValidateExcludes checks value contains none of the characters in chars
func ValidateExcludes(field, value, chars string, vb *ValidationBuilder) {
	if strings.ContainsAny(value, chars) {
		vb.Fieldf(field, "must not contain any of %q", chars)
	}
}

// ValidateRange checks minValue <= value <= maxValue
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

// ValidateNonNegative checks value >= 0. Durations and unix seconds both fit.
func ValidateNonNegative[T ~int | ~int64](field string, value T, vb *ValidationBuilder) {
	if value < 0 {
		vb.Field(field, "must not be negative")
	}
}

// ValidatePositive checks value > 0
func ValidatePositive[T ~int | ~int64](field string, value T, vb *ValidationBuilder) {
	if value <= 0 {
		vb.Field(field, "must be positive")
	}
}

// ValidateEnum checks value is one of allowed
func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
}
