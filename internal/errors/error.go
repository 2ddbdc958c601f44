package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategorySurface  Category = "surface"
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// VelaError is a structured error with a code, an explanation and an optional cause.
type VelaError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (surface, runtime, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Op names the operation that failed, if any (e.g., "insert").
	Op string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VelaError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VelaError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a VelaError with the same code.
func (e *VelaError) Is(target error) bool {
	t, ok := target.(*VelaError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithOp records the failing operation.
func (e *VelaError) WithOp(op string) *VelaError {
	e.Op = op
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VelaError) WithSuggestion(s string) *VelaError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VelaError) WithDetail(d string) *VelaError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail.
func (e *VelaError) WithDetailf(format string, args ...any) *VelaError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *VelaError) Wrap(err error) *VelaError {
	e.Wrapped = err
	return e
}

// New creates a VelaError from a registered error code.
func New(code string) *VelaError {
	template, ok := registry[code]
	if !ok {
		return &VelaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VelaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new VelaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *VelaError {
	return &VelaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VelaError.
// Errors that already are (or wrap) a VelaError are returned as that error.
func FromError(err error, code string) *VelaError {
	if err == nil {
		return nil
	}
	var ve *VelaError
	if stderrors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a VelaError with the given code.
func HasCode(err error, code string) bool {
	var ve *VelaError
	for err != nil {
		if !stderrors.As(err, &ve) {
			return false
		}
		if ve.Code == code {
			return true
		}
		err = ve.Wrapped
	}
	return false
}
