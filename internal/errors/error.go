package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryBuild    Category = "build"
	CategoryResolve  Category = "resolve"
	CategoryGenerate Category = "generate"
	CategoryCoverage Category = "coverage"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a source location, used by the static checker to
// point at resource-id occurrences in scanned files.
type Location struct {
	File string
	Line int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// MappaError is a structured error with a stable code, a category and
// optional context. Codes are what tools and tests key off; messages
// are for humans.
type MappaError struct {
	// Code is a unique error identifier (e.g., "M001").
	Code string

	// Category is the error type (build, resolve, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location, when the error points at a file.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MappaError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MappaError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location to the error.
func (e *MappaError) WithLocation(file string, line int) *MappaError {
	e.Location = &Location{File: file, Line: line}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MappaError) WithSuggestion(s string) *MappaError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *MappaError) WithDetail(d string) *MappaError {
	e.Detail = d
	return e
}

// WithMessagef replaces the template message with a formatted one.
// The code and category are kept.
func (e *MappaError) WithMessagef(format string, args ...any) *MappaError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *MappaError) Wrap(err error) *MappaError {
	e.Wrapped = err
	return e
}

// New creates a MappaError from a registered error code.
func New(code string) *MappaError {
	template, ok := registry[code]
	if !ok {
		return &MappaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &MappaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new MappaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *MappaError {
	return &MappaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a MappaError.
func FromError(err error, code string) *MappaError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MappaError); ok {
		return me
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of err if it is a MappaError, or "".
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var me *MappaError
	if As(err, &me) {
		return me.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
