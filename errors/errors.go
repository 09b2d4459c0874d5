package errors

import (
	stderrors "errors"
	"fmt"
)

// Standard error codes
const (
	ErrInvalidRequest      = 400
	ErrNotFound            = 404
	ErrInternalServerError = 500

	// Studio-specific error codes (1000+)
	ErrUpstream         = 1001
	ErrGenerationFailed = 1002
	ErrStoreCorrupt     = 1003
	ErrStoreError       = 1004
)

// AppError represents a custom application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s [%v]", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error into an AppError
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode extracts error code from an error
func GetCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrInternalServerError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code int) bool {
	return err != nil && GetCode(err) == code
}

// IsServerError reports whether the code maps to a 5xx status.
func IsServerError(code int) bool {
	return HTTPStatusFromCode(code) >= 500
}

// HTTPStatusFromCode maps error codes to HTTP status codes
func HTTPStatusFromCode(code int) int {
	switch code {
	case ErrInvalidRequest:
		return 400
	case ErrNotFound:
		return 404
	case ErrInternalServerError:
		return 500
	case ErrUpstream, ErrGenerationFailed, ErrStoreCorrupt, ErrStoreError:
		return 500
	default:
		return 500
	}
}
