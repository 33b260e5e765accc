package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
	assert.Equal(t, "[AUTH_001] Invalid credentials", err.Error())

	wrapped := Wrap("VLT_001", "secure vault store failed", http.StatusInternalServerError, errors.New("keychain locked"))
	assert.Contains(t, wrapped.Error(), "VLT_001")
	assert.Contains(t, wrapped.Error(), "keychain locked")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := ErrNetwork("getBalance", inner)

	assert.ErrorIs(t, err, inner)

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &appErr))
	assert.Equal(t, "NET_001", appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

func TestPartialStorageError(t *testing.T) {
	inner := errors.New("disk full")
	err := ErrPartialStorage("private key", "public key", inner)

	assert.Contains(t, err.Error(), "private key stored")
	assert.Contains(t, err.Error(), "public key missing")
	assert.ErrorIs(t, err, inner)

	// Callers recover the typed error to decide which half to retry.
	var partial *PartialStorageError
	require.True(t, errors.As(fmt.Errorf("store wallet key: %w", err), &partial))
	assert.Equal(t, "public key", partial.Missing)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"vault storage", ErrVaultStorage("get", errors.New("x")), "VLT_001", http.StatusInternalServerError},
		{"key generation", ErrKeyGeneration(errors.New("entropy")), "KEY_001", http.StatusInternalServerError},
		{"invalid key format", ErrInvalidKeyFormat(errors.New("bad hex")), "KEY_002", http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials(), "AUTH_001", http.StatusUnauthorized},
		{"email exists", ErrEmailExists(), "AUTH_002", http.StatusConflict},
		{"invalid token", ErrInvalidToken(), "AUTH_003", http.StatusUnauthorized},
		{"confirmation timeout", ErrConfirmationTimeout("5ig"), "NET_002", http.StatusGatewayTimeout},
		{"unsupported network", ErrUnsupportedNetwork("mainnet-beta"), "NET_003", http.StatusForbidden},
		{"invalid transition", ErrInvalidTransition("completed", "pending"), "LED_001", http.StatusConflict},
		{"not found", ErrNotFound("profile"), "LED_002", http.StatusNotFound},
		{"rate limited", ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestErrInvalidTransition_Message(t *testing.T) {
	err := ErrInvalidTransition("failed", "completed")
	assert.Contains(t, err.Message, "failed -> completed")
}
