// Package errors provides a lightweight structured error type (AppsmithError)
// for category-based classification in the publish pipeline and HTTP adapters.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an Appsmith error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// External system integration errors
	CategoryGeneration ErrorCategory = "generation"
	CategoryForge      ErrorCategory = "forge"
	CategoryNotify     ErrorCategory = "notify"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// AppsmithError is a structured error with category, severity, and context
type AppsmithError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Build returns the error itself for compatibility with builder-style construction.
func (e *AppsmithError) Build() *AppsmithError {
	return e
}

// ContextFields carries structured context for AppsmithError
type ContextFields map[string]any

// Error implements the error interface
func (e *AppsmithError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *AppsmithError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *AppsmithError) WithContext(key string, value any) *AppsmithError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new AppsmithError
func New(category ErrorCategory, severity ErrorSeverity, message string) *AppsmithError {
	return &AppsmithError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new AppsmithError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *AppsmithError {
	return &AppsmithError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// ValidationError creates a validation-category error at error severity.
func ValidationError(message string) *AppsmithError {
	return New(CategoryValidation, SeverityError, message)
}

// AuthError creates an auth-category error at error severity.
func AuthError(message string) *AppsmithError {
	return New(CategoryAuth, SeverityError, message)
}
