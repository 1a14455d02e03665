// Package derrors defines the closed set of domain error codes and their HTTP
// mapping. Services return these instead of ad hoc errors so transport code
// can translate uniformly.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies one entry of the error taxonomy.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeQuotaExceeded      Code = "quota_exceeded"
	CodeRateLimited        Code = "rate_limited"
	CodeInvalidRequest     Code = "invalid_request"
	CodeInvalidStyle       Code = "invalid_style"
	CodeInvalidImage       Code = "invalid_image"
	CodeInvalidFileType    Code = "invalid_file_type"
	CodeUploadTooLarge     Code = "upload_too_large"
	CodeUpstreamError      Code = "upstream_error"
	CodeInternal           Code = "server_error"
)

// Error carries a taxonomy code, a user-facing message, and an optional cause.
// The cause is for local logs only and never reaches the caller.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and user-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the taxonomy code from err, defaulting to CodeInternal for
// anything outside the closed set.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its contractual HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeQuotaExceeded:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeInvalidRequest, CodeInvalidStyle, CodeInvalidImage,
		CodeInvalidFileType, CodeUploadTooLarge:
		return http.StatusBadRequest
	case CodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
