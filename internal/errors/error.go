package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
	CategoryExport Category = "export"
)

// ReflowError is a structured error with a stable code and a suggestion.
type ReflowError struct {
	// Code is a unique error identifier (e.g. "E120").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReflowError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReflowError) Unwrap() error {
	return e.Wrapped
}

// Wrap attaches an underlying error.
func (e *ReflowError) Wrap(err error) *ReflowError {
	e.Wrapped = err
	return e
}

// WithDetail overrides the template detail.
func (e *ReflowError) WithDetail(format string, args ...any) *ReflowError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *ReflowError) WithSuggestion(s string) *ReflowError {
	e.Suggestion = s
	return e
}

// Format renders the error for terminal output, one fact per line.
func (e *ReflowError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s\n", e.Code, e.Category, e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, "  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  cause: %s\n", e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  hint: %s\n", e.Suggestion)
	}
	return b.String()
}

// New creates an error from a registered code. Unknown codes produce a
// generic error rather than panicking, so an unregistered code in a new
// code path degrades to a plain message.
func New(code string) *ReflowError {
	if tmpl, ok := registry[code]; ok {
		return &ReflowError{
			Code:       code,
			Category:   tmpl.Category,
			Message:    tmpl.Message,
			Detail:     tmpl.Detail,
			Suggestion: tmpl.Suggestion,
		}
	}
	return &ReflowError{
		Code:     code,
		Category: CategoryCLI,
		Message:  "unknown error",
	}
}

// Newf creates an ad-hoc error without a registered code.
func Newf(category Category, format string, args ...any) *ReflowError {
	return &ReflowError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}
