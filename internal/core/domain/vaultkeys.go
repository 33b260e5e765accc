package domain

import "github.com/google/uuid"

// Vault key namespaces. Keys are plain strings; the namespacing prefix is
// the only schema the vault knows about.
const (
	vaultPrivateKeyPrefix = "wallet:privkey:"
	vaultPublicKeyPrefix  = "wallet:pubkey:"

	// SessionVaultKey holds the serialized session for the device user.
	SessionVaultKey = "auth:session"
)

// BuildPrivateKeyVaultKey returns the vault key for an account's private key.
func BuildPrivateKeyVaultKey(accountID uuid.UUID) string {
	return vaultPrivateKeyPrefix + accountID.String()
}

// BuildPublicKeyVaultKey returns the vault key for an account's public key.
func BuildPublicKeyVaultKey(accountID uuid.UUID) string {
	return vaultPublicKeyPrefix + accountID.String()
}
