package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnsupportedCurrency indicates a currency code outside the registry.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrRateUnavailable indicates that no rate could be resolved for a pair and date.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrCurrencyMismatch indicates an amount denominated in the wrong currency.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInconsistentBatch indicates a batch input that cannot be processed as a whole.
var ErrInconsistentBatch = errors.New("inconsistent batch input")

// ErrMissingRate indicates that a caller-supplied rate map lacks a needed currency.
var ErrMissingRate = errors.New("missing rate")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewValidationError builds a 400 AppError wrapping ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// RateUnavailableError names the pair and date no source could price.
type RateUnavailableError struct {
	Base  string
	Quote string
	Date  string
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s/%s on %s; supply a manual rate for this pair", e.Base, e.Quote, e.Date)
}

// Is makes errors.Is(err, ErrRateUnavailable) match.
func (e *RateUnavailableError) Is(target error) bool { return target == ErrRateUnavailable }

// CurrencyMismatchError reports the expected and actual currency.
type CurrencyMismatchError struct {
	Expected string
	Actual   string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: expected amount in %s, got %s", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrCurrencyMismatch) match.
func (e *CurrencyMismatchError) Is(target error) bool { return target == ErrCurrencyMismatch }

// MissingRateError reports the pair absent from a caller-supplied rate map.
type MissingRateError struct {
	From string
	To   string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing rate for %s/%s", e.From, e.To)
}

// Is makes errors.Is(err, ErrMissingRate) match.
func (e *MissingRateError) Is(target error) bool { return target == ErrMissingRate }

// HTTPStatus maps an error from the engine to a response status.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnsupportedCurrency),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrInconsistentBatch),
		errors.Is(err, ErrMissingRate):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
