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

// ---- Secure Vault (VLT) ----

// ErrVaultStorage wraps an underlying vault I/O failure. The vault never
// silently drops a write; any platform fault surfaces through here.
func ErrVaultStorage(op string, err error) *AppError {
	return Wrap("VLT_001", fmt.Sprintf("secure vault %s failed", op), http.StatusInternalServerError, err)
}

// PartialStorageError reports a compound vault write that partially
// succeeded. Stored and Missing name the two halves so the caller can
// retry only the missing write instead of regenerating key material.
type PartialStorageError struct {
	Stored  string
	Missing string
	Err     error
}

func (e *PartialStorageError) Error() string {
	return fmt.Sprintf("[VLT_002] partial vault write: %s stored, %s missing: %v", e.Stored, e.Missing, e.Err)
}

func (e *PartialStorageError) Unwrap() error {
	return e.Err
}

// ErrPartialStorage creates a PartialStorageError for a compound write.
func ErrPartialStorage(stored, missing string, err error) *PartialStorageError {
	return &PartialStorageError{Stored: stored, Missing: missing, Err: err}
}

// ---- Wallet Keys (KEY) ----

func ErrKeyGeneration(err error) *AppError {
	return Wrap("KEY_001", "Failed to generate wallet keypair", http.StatusInternalServerError, err)
}

func ErrInvalidKeyFormat(err error) *AppError {
	return Wrap("KEY_002", "Malformed private key", http.StatusBadRequest, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email is already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ErrAuthProvider wraps a rejection from the identity provider.
func ErrAuthProvider(err error) *AppError {
	return Wrap("AUTH_004", "Identity provider rejected the request", http.StatusUnauthorized, err)
}

// ---- Network / Chain (NET) ----

// ErrNetwork wraps an RPC or backend transport failure. Retryable by the
// caller; never retried silently inside a service.
func ErrNetwork(op string, err error) *AppError {
	return Wrap("NET_001", fmt.Sprintf("network failure during %s", op), http.StatusBadGateway, err)
}

func ErrConfirmationTimeout(signature string) *AppError {
	return New("NET_002", fmt.Sprintf("transaction %s not confirmed in time", signature), http.StatusGatewayTimeout)
}

func ErrUnsupportedNetwork(network string) *AppError {
	return New("NET_003", fmt.Sprintf("operation not available on network %q", network), http.StatusForbidden)
}

// ---- Ledger (LED) ----

func ErrInvalidTransition(from, to string) *AppError {
	return New("LED_001", fmt.Sprintf("illegal status transition %s -> %s", from, to), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
