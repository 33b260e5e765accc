package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account identifies an authenticated end user. It is owned by the
// identity provider; this core only reads it.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"` // Never expose
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lowercases and trims an email so equality checks and
// uniqueness constraints behave the same everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
