// Package apperror defines the error taxonomy surfaced by usecases and rendered
// by the HTTP error handler.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
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

// Status maps the error code onto an HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeRemoteStore:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Unauthenticated(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(CodeForbidden, msg)
}

func Validation(msg string) error {
	return New(CodeValidation, msg)
}

func NotFound(resource string, id interface{}) error {
	return New(CodeNotFound, fmt.Sprintf("%s with ID %v not found", resource, id))
}

func RemoteStore(msg string, cause error) error {
	return Wrap(CodeRemoteStore, msg, cause)
}

func Internal(cause error) error {
	return Wrap(CodeInternal, "internal server error", cause)
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
