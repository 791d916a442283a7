package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDebtNotFound     = errors.New("debt not found")
	ErrPersonNotFound   = errors.New("person not found")
	ErrInvalidDebtTerms = errors.New("invalid debt terms")
	ErrInvalidPayment   = errors.New("invalid payment")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDebtNotFound   = "DEBT_NOT_FOUND"
	ErrCodePersonNotFound = "PERSON_NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInvalidPayment = "INVALID_PAYMENT"
	ErrCodeDatabaseError  = "DATABASE_ERROR"
	ErrCodeCacheError     = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapDebtNotFound(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtNotFound,
		fmt.Sprintf("Debt with ID %s not found", debtID),
		ErrDebtNotFound,
	)
}

func WrapPersonNotFound(personID string) *BusinessError {
	return NewBusinessError(
		ErrCodePersonNotFound,
		fmt.Sprintf("Person with ID %s not found", personID),
		ErrPersonNotFound,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		message,
		ErrInvalidDebtTerms,
	)
}

func WrapInvalidPayment(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPayment,
		message,
		ErrInvalidPayment,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
