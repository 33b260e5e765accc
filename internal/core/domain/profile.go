package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the durable link between an Account and its wallet address.
// WalletAddress is nil until wallet creation completes, then immutable
// under normal flow; only an explicit re-association changes it.
type Profile struct {
	AccountID     uuid.UUID `json:"account_id"`
	Email         string    `json:"email"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	DisplayName   *string   `json:"display_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastLoginAt   time.Time `json:"last_login_at"`
}

// HasWallet reports whether a wallet address is bound to this profile.
func (p *Profile) HasWallet() bool {
	return p.WalletAddress != nil && *p.WalletAddress != ""
}
