// Package apperrors defines the application error taxonomy. Every failure the
// API can surface is one of these types; the error middleware maps them to
// status codes and the uniform response envelope.
package apperrors

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Errors     []string
	cause      error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func Validation(message string, errs ...string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    message,
		Errors:     errs,
	}
}

func Authentication(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return &AppError{
		StatusCode: http.StatusUnauthorized,
		Code:       "AUTHENTICATION_ERROR",
		Message:    message,
	}
}

// Authorization exists for completeness. Ownership violations deliberately
// surface as NotFound so that other users' rows are indistinguishable from
// missing ones.
func Authorization(message string) *AppError {
	if message == "" {
		message = "Insufficient permissions"
	}
	return &AppError{
		StatusCode: http.StatusForbidden,
		Code:       "AUTHORIZATION_ERROR",
		Message:    message,
	}
}

func NotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return &AppError{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    message,
	}
}

func Conflict(message string) *AppError {
	if message == "" {
		message = "Resource conflict"
	}
	return &AppError{
		StatusCode: http.StatusConflict,
		Code:       "CONFLICT",
		Message:    message,
	}
}

func internal(err error) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "Internal Server Error",
		cause:      err,
	}
}

// Postgres error classes surfaced by lib/pq.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Translate maps an arbitrary error to an AppError. Store-layer constraint
// violations are folded into the taxonomy here so gorm/pq shapes never leak
// to clients.
func Translate(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{
			StatusCode: http.StatusNotFound,
			Code:       "RECORD_NOT_FOUND",
			Message:    "Record not found",
			cause:      err,
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &AppError{
			StatusCode: http.StatusConflict,
			Code:       "DUPLICATE_RECORD",
			Message:    "A record with this information already exists",
			cause:      err,
		}
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &AppError{
			StatusCode: http.StatusBadRequest,
			Code:       "FOREIGN_KEY_CONSTRAINT",
			Message:    "Invalid foreign key constraint",
			cause:      err,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return &AppError{
				StatusCode: http.StatusConflict,
				Code:       "DUPLICATE_RECORD",
				Message:    "A record with this information already exists",
				cause:      err,
			}
		case pqForeignKeyViolation:
			return &AppError{
				StatusCode: http.StatusBadRequest,
				Code:       "FOREIGN_KEY_CONSTRAINT",
				Message:    "Invalid foreign key constraint",
				cause:      err,
			}
		}
	}

	return internal(err)
}
