package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Account Ledger (ACC) ----

// Validation signals malformed input, rejected before any write.
func Validation(message string) *AppError {
	return New("ACC_001", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("ACC_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrInvalidState signals a mutation attempted against a record whose
// current state forbids it (non-ACTIVE account, non-PENDING transaction).
func ErrInvalidState(message string) *AppError {
	return New("ACC_003", message, http.StatusConflict)
}

func ErrInsufficientFunds() *AppError {
	return New("ACC_004", "Insufficient funds", http.StatusPaymentRequired)
}

// ---- Transaction Orchestration (TXN) ----

// ErrAccountUnavailable signals that the remote account side is unreachable
// or errored before the ledger attempted any balance mutation.
func ErrAccountUnavailable(err error) *AppError {
	return Wrap("TXN_001", "Account service unavailable", http.StatusBadGateway, err)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrUnavailable signals a transport-level failure from the gateway.
func ErrUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Service unavailable", http.StatusServiceUnavailable, err)
}
