package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrDuplicateDate ErrorType = "DUPLICATE_DATE"
	ErrInvalidInput  ErrorType = "INVALID_INPUT"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func isType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsUnauthorized checks if the error is a shared-secret mismatch
func IsUnauthorized(err error) bool {
	return isType(err, ErrUnauthorized)
}

// IsDuplicateDate checks if the error is a day-record uniqueness violation
func IsDuplicateDate(err error) bool {
	return isType(err, ErrDuplicateDate)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return isType(err, ErrInvalidInput)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, err error) *AppError {
	return New(ErrUnauthorized, message, err)
}

// NewDuplicateDateError creates a new duplicate-date error
func NewDuplicateDateError(date string, err error) *AppError {
	return New(ErrDuplicateDate, fmt.Sprintf("day record already exists for %s", date), err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}
