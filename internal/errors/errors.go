package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput      ErrorCode = "invalid_input"
	InvalidAmount     ErrorCode = "invalid_amount"
	InsufficientFunds ErrorCode = "insufficient_funds"
	AccountNotFound   ErrorCode = "account_not_found"
	UserNotFound      ErrorCode = "user_not_found"
	DuplicateUser     ErrorCode = "duplicate_user"
	Forbidden         ErrorCode = "forbidden"
	InternalError     ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps an error code to the status the handlers respond with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case InsufficientFunds:
		return http.StatusConflict
	case AccountNotFound, UserNotFound:
		return http.StatusNotFound
	case DuplicateUser:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount     = NewAppError(InvalidAmount, "amount cannot be negative")
	ErrInsufficientFunds = NewAppError(InsufficientFunds, "cannot withdraw more than the account total")
	ErrAccountNotFound   = NewAppError(AccountNotFound, "account not found")
	ErrUserNotFound      = NewAppError(UserNotFound, "user not found")
	ErrDuplicateUser     = NewAppError(DuplicateUser, "username already taken")
	ErrNotManager        = NewAppError(Forbidden, "caller is not the account manager")

	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from within a transaction")
)
