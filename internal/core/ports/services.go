package ports

import (
	"context"
	"time"

	"solafi-wallet-core/internal/core/domain"

	"github.com/google/uuid"
)

// SecretVault is scoped key-value secret storage. Keys are namespaced
// strings (see domain vault key builders); values are opaque. The vault
// provides no cross-key transactions — compound operations order their
// writes and compensate partial failure themselves.
type SecretVault interface {
	Store(ctx context.Context, key, value string) error
	// Get returns found=false rather than an error when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Delete(ctx context.Context, key string) error
}

// ChainClient is the blockchain RPC boundary. Amounts cross it in the
// smallest on-chain unit.
type ChainClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	RequestAirdrop(ctx context.Context, address string, lamports uint64) (signature string, err error)
	// ConfirmTransaction blocks until the signature is confirmed or the
	// bounded wait elapses.
	ConfirmTransaction(ctx context.Context, signature string) error
}

// IdentityProvider is the remote account/session boundary.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Account, *domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Account, *domain.Session, error)
	SignOut(ctx context.Context, token string) error
	GetAccount(ctx context.Context, token string) (*domain.Account, error)
	ResetPassword(ctx context.Context, email string) error
}

// EncryptionService handles AES-256-GCM encryption/decryption of vault
// values at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService issues and validates session bearer tokens.
type TokenService interface {
	Generate(accountID uuid.UUID, email string) (token string, expiresAt time.Time, err error)
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims holds the parsed session token claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Email     string
}

// Settler performs the actual debit/credit for a ledger entry. The
// shipped implementation is a no-op: entries complete without moving
// funds, pending real settlement.
type Settler interface {
	Settle(ctx context.Context, t *domain.Transaction) error
}

// --- Service Ports (Business Logic) ---

// WalletService manages wallet identity: keypairs, vault-resident key
// material, balances and test-network funding.
type WalletService interface {
	CreateWallet() (*domain.WalletKeyPair, error)
	GetBalance(ctx context.Context, publicKey string) (float64, error)
	StoreWalletKey(ctx context.Context, accountID uuid.UUID, privateKey string) error
	GetWalletKey(ctx context.Context, accountID uuid.UUID) (string, bool, error)
	GetWalletPublicKey(ctx context.Context, accountID uuid.UUID) (string, bool, error)
	DeleteWalletKeys(ctx context.Context, accountID uuid.UUID) error
	KeypairFromPrivateKey(privateKey string) (*domain.WalletKeyPair, error)
	RequestAirdrop(ctx context.Context, publicKey string, amountSOL float64) (signature string, err error)
}

// RegistrationResult is returned on successful account creation.
type RegistrationResult struct {
	Account       *domain.Account
	Session       *domain.Session
	WalletAddress string
}

// SessionEvent notifies subscribers of session lifecycle changes.
type SessionEvent struct {
	Type    SessionEventType
	Session *domain.Session // nil on sign-out
}

// SessionEventType enumerates session change kinds.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// AuthService orchestrates registration, login, sessions and the
// profile/wallet binding.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*RegistrationResult, error)
	// ProvisionWallet resumes registration for an account that is
	// registered but walletless, or whose vault-resident key never made it
	// onto the profile. Idempotent.
	ProvisionWallet(ctx context.Context, accountID uuid.UUID, email string) (string, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*domain.Session, bool, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error)
	ReassociateWallet(ctx context.Context, accountID uuid.UUID, walletAddress string) error
	ResetPassword(ctx context.Context, email string) error
	Subscribe() (<-chan SessionEvent, func())
}

// SendStatus classifies the outcome of a send attempt. RecipientNotFound
// is a business outcome, not a fault — no ledger entry exists for it.
type SendStatus string

const (
	SendStatusCompleted         SendStatus = "completed"
	SendStatusFailed            SendStatus = "failed"
	SendStatusRecipientNotFound SendStatus = "recipient_not_found"
)

// SendResult is the typed outcome of SendToEmail.
type SendResult struct {
	Status        SendStatus
	Message       string
	TransactionID *uuid.UUID
}

// NewTransaction holds validated input for recording a ledger entry.
type NewTransaction struct {
	FromAccountID   uuid.UUID
	ToAccountID     *uuid.UUID
	ToEmail         *string
	ToWalletAddress *string
	Currency        string
	Amount          float64
	Type            domain.TransactionType
}

// UserStats aggregates a user's completed ledger activity and cached
// balances. An empty history yields zeros, not an error.
type UserStats struct {
	TotalSent        float64
	TotalReceived    float64
	TotalBalance     float64
	TransactionCount int
	Balances         []domain.WalletBalance
}

// LedgerService records transaction attempts, enforces the status state
// machine and aggregates per-user statistics.
type LedgerService interface {
	RecordTransaction(ctx context.Context, entry NewTransaction) (uuid.UUID, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, update TransactionUpdate) error
	SendToEmail(ctx context.Context, fromAccountID uuid.UUID, toEmail, currency string, amount float64) (*SendResult, error)
	GetUserTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)
	GetReceivedTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)
	GetUserStats(ctx context.Context, accountID uuid.UUID) (*UserStats, error)
	RequestAirdropAndRecord(ctx context.Context, accountID uuid.UUID, walletAddress string, amountSOL float64) (*SendResult, error)
	UpdateWalletBalance(ctx context.Context, accountID uuid.UUID, currency string, balance float64) error
	GetWalletBalance(ctx context.Context, accountID uuid.UUID, currency string) (float64, error)
}
