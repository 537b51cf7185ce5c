// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package apperr defines the centralized error handling framework for Longbox.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Pipeline taxonomy: CorruptArchive, PageUnreadable, TranscodeFailed carry the
    archive-processing failure modes through the same type.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Longbox API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional retryable marker.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., filesystem paths).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CORRUPT_ARCHIVE").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Retryable marks transient failures a client may safely retry.
	Retryable bool `json:"retryable,omitempty"`
	// Details carries field-level validation errors, when applicable.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Issue") // Returns "Issue not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError].
func ValidationError(msg string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationFields creates a 400 [AppError] carrying field-level details.
func ValidationFields(fields []FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "One or more fields are invalid",
		HTTPStatus: http.StatusBadRequest,
		Details:    fields,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
		Retryable:  true,
	}
}

// # Pipeline Errors

// CorruptArchive creates a 422 [AppError] for a container whose central
// directory cannot be opened. Scans record it and move on; it is never fatal.
func CorruptArchive(path string, cause error) *AppError {
	return &AppError{
		Code:       "CORRUPT_ARCHIVE",
		Message:    "Archive cannot be opened",
		HTTPStatus: http.StatusUnprocessableEntity,
		Cause:      fmt.Errorf("corrupt archive %s: %w", path, cause),
	}
}

// PageUnreadable creates a 404 [AppError] for a single unreadable entry.
// Sibling pages of the same archive remain served.
func PageUnreadable(index int, cause error) *AppError {
	return &AppError{
		Code:       "PAGE_UNREADABLE",
		Message:    fmt.Sprintf("Page %d cannot be read", index),
		HTTPStatus: http.StatusNotFound,
		Cause:      cause,
	}
}

// TranscodeFailed creates a 503 [AppError] for a failed artifact computation.
// It is retryable: the failure is surfaced to waiters but never cached.
func TranscodeFailed(cause error) *AppError {
	return &AppError{
		Code:       "TRANSCODE_FAILED",
		Message:    "Page could not be transcoded",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
		Retryable:  true,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError].
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	if ae := As(err); ae != nil {
		return ae.Code == code
	}
	return false
}
