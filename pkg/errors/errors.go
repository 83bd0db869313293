package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches on code and message so wrapped sentinels compare equal.
// Out-of-range errors carry the bound in their message and match on code
// alone.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e.Code != t.Code {
		return false
	}
	return e.Code == CodeOutOfRange || e.Message == t.Message
}

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func OutOfRange(msg string) error {
	return New(CodeOutOfRange, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(CodePermissionDenied, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

func FailedPrecondition(msg string) error {
	return New(CodeFailedPrecondition, msg)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps err to a response status. Anything that is not an
// AppError is a 500.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := httpStatus[appErr.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to return to a client. Causes are never
// included.
func PublicMessage(err error) string {
	appErr, ok := As(err)
	if !ok || appErr.Code == CodeInternal || appErr.Code == CodeUnknown {
		return http.StatusText(http.StatusInternalServerError)
	}
	return appErr.Message
}
