package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this lesson")
	ErrCapacityExceeded   = errors.New("lesson is full")
	ErrNotEnrolled        = errors.New("student is not enrolled in this lesson")
	ErrConflict           = errors.New("record already exists")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("permission denied")
)

// FieldError is an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned when an input or an update descriptor is rejected.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError wraps err with the failing fields.
func NewValidationError(err error, fields ...FieldError) *ValidationError {
	return &ValidationError{Err: err, Fields: fields}
}

// FieldValidationError is a shortcut for a single-field ValidationError.
func FieldValidationError(field, msg string) *ValidationError {
	return NewValidationError(errors.New(field+": "+msg), FieldError{Field: field, Error: msg})
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FieldMap returns the field errors keyed by field name.
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Error
	}
	return m
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

var errEmptyUpdate = errors.New("nothing to update")

// ErrEmptyUpdate is returned by repositories when an update descriptor sets no field.
func ErrEmptyUpdate() *ValidationError {
	return NewValidationError(errEmptyUpdate)
}
