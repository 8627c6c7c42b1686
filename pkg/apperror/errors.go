package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"` // per-field validation failures
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // Wrapped internal error (not exposed to client)
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

// ---- QR Codec (QR) ----

// ErrQRValidation reports every field that failed validation in one error.
func ErrQRValidation(violations []string) *AppError {
	return &AppError{
		Code:       "QR_001",
		Message:    "QR generation input failed validation",
		Violations: violations,
		HTTPStatus: http.StatusBadRequest,
	}
}

func ErrInvalidChecksum() *AppError {
	return New("QR_002", "QR payload checksum mismatch", http.StatusBadRequest)
}

func ErrMalformedPayload(err error) *AppError {
	return Wrap("QR_003", "QR payload is malformed", http.StatusBadRequest, err)
}

func ErrSessionExpired() *AppError {
	return New("QR_004", "Payment session has expired", http.StatusGone)
}

func ErrSessionNotPayable() *AppError {
	return New("QR_005", "Payment session is not payable", http.StatusConflict)
}

// ---- Price Oracle (ORA) ----

func ErrNoPriceAvailable(asset string) *AppError {
	return New("ORA_001", fmt.Sprintf("No price available for %s", asset), http.StatusServiceUnavailable)
}

func ErrUnsupportedAsset(asset string) *AppError {
	return New("ORA_002", fmt.Sprintf("Asset %s is not supported", asset), http.StatusBadRequest)
}

// ---- Payment Business Logic (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrMerchantSuspended() *AppError {
	return New("PAY_003", "Merchant account is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_001-style validation error.
func Validation(message string) *AppError {
	return New("PAY_001", message, http.StatusBadRequest)
}
