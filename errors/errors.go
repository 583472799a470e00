// Package errors provides the unified error type for the worker.
// Every failure that reaches the result event carries a machine-readable
// code so the host application can react without parsing message text.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code Code `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InputAudioNotFound creates a new AppError for a missing input recording.
func InputAudioNotFound(path string) *AppError {
	return New(CodeInputAudioNotFound, fmt.Sprintf("Audio file not found: %s", path))
}

// TokenMissing creates a new AppError for a missing diarization credential.
func TokenMissing() *AppError {
	return New(CodeTokenMissing, "No Hugging Face token found in worker environment.")
}

// ModelMissing creates a new AppError for a bootstrap call without a model name.
func ModelMissing() *AppError {
	return New(CodeModelMissing, "An ASR model name is required for bootstrap.")
}

// Timeout creates a new AppError for a transcription call that exceeded its deadline.
func Timeout(operation string, seconds float64) *AppError {
	return New(CodeTimeout, fmt.Sprintf("%s did not finish within %.0f seconds.", operation, seconds))
}

// Worker wraps any other propagated error as the catch-all worker failure.
func Worker(cause error) *AppError {
	return &AppError{
		Code:    CodeWorkerException,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// CodeOf extracts the error code from err. Any error that is not an
// AppError maps to the catch-all code.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeWorkerException
}

// MessageOf extracts the human-readable message from err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
