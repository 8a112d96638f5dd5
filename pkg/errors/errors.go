package errors

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConflict         = "CONFLICT"
	CodeSlotConflict     = "SLOT_CONFLICT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeRateLimited      = "RATE_LIMITED"
)

// SlotUnavailableMessage is returned to clients whose claim lost the race.
const SlotUnavailableMessage = "Selected time slot is no longer available"

// AppError carries an error kind through the service layers. Only the HTTP boundary
// turns a Code into a status code.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Validation reports malformed or missing client input. Never retried.
func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// SlotConflict reports a lost claim. Clients may pick another slot; the same one is
// never retried automatically.
func SlotConflict() *AppError {
	return &AppError{
		Code:    CodeSlotConflict,
		Message: SlotUnavailableMessage,
	}
}

// Transient reports a store call that failed for infrastructure reasons.
func Transient(message string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: message,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode reports whether err is an AppError of the given kind.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
