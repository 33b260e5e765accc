package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a transient proof of authentication issued by the identity
// provider. It is persisted in the secure vault for offline reuse and
// deleted on logout.
type Session struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"` // opaque bearer credential
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
