package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ed25519 secret keys are 64 bytes: seed followed by the public half.
const privateKeyBytes = 64

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	vault          ports.SecretVault
	chain          ports.ChainClient
	network        domain.Network
	airdropCapSOL  float64
	confirmTimeout time.Duration
	log            zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	vault ports.SecretVault,
	chain ports.ChainClient,
	network domain.Network,
	airdropCapSOL float64,
	confirmTimeout time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		vault:          vault,
		chain:          chain,
		network:        network,
		airdropCapSOL:  airdropCapSOL,
		confirmTimeout: confirmTimeout,
		log:            log,
	}
}

// CreateWallet generates a fresh keypair from a cryptographically secure
// random source. No network call. Generation failure is fatal and never
// retried silently.
func (s *WalletServiceImpl) CreateWallet() (*domain.WalletKeyPair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, apperror.ErrKeyGeneration(err)
	}

	return &domain.WalletKeyPair{
		PublicKey:  priv.PublicKey().String(),
		PrivateKey: hex.EncodeToString(priv),
	}, nil
}

// GetBalance queries the network and converts lamports to SOL.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, publicKey string) (float64, error) {
	lamports, err := s.chain.GetBalance(ctx, publicKey)
	if err != nil {
		return 0, apperror.ErrNetwork("getBalance", err)
	}
	return domain.LamportsToSOL(lamports), nil
}

// StoreWalletKey derives the public key from the private key and writes
// both halves into the vault, private key first. If the public-key write
// fails after the private-key write succeeded, the error names the
// missing half so the caller retries only that write — regenerating
// would orphan the already-stored private key.
func (s *WalletServiceImpl) StoreWalletKey(ctx context.Context, accountID uuid.UUID, privateKey string) error {
	kp, err := s.KeypairFromPrivateKey(privateKey)
	if err != nil {
		return err
	}

	if err := s.vault.Store(ctx, domain.BuildPrivateKeyVaultKey(accountID), privateKey); err != nil {
		return apperror.ErrVaultStorage("store private key", err)
	}

	if err := s.vault.Store(ctx, domain.BuildPublicKeyVaultKey(accountID), kp.PublicKey); err != nil {
		return apperror.ErrPartialStorage("private key", "public key", err)
	}

	s.log.Info().
		Str("account_id", accountID.String()).
		Str("public_key", kp.PublicKey).
		Msg("wallet key stored")

	return nil
}

// GetWalletKey returns the vault-resident private key for an account.
// Absence is not an error.
func (s *WalletServiceImpl) GetWalletKey(ctx context.Context, accountID uuid.UUID) (string, bool, error) {
	value, found, err := s.vault.Get(ctx, domain.BuildPrivateKeyVaultKey(accountID))
	if err != nil {
		return "", false, apperror.ErrVaultStorage("get private key", err)
	}
	return value, found, nil
}

// GetWalletPublicKey returns the vault-resident public key for an account.
func (s *WalletServiceImpl) GetWalletPublicKey(ctx context.Context, accountID uuid.UUID) (string, bool, error) {
	value, found, err := s.vault.Get(ctx, domain.BuildPublicKeyVaultKey(accountID))
	if err != nil {
		return "", false, apperror.ErrVaultStorage("get public key", err)
	}
	return value, found, nil
}

// DeleteWalletKeys removes both vault entries for an account. The private
// half goes first; a failure on the public half is reported as partial so
// the caller can finish the removal.
func (s *WalletServiceImpl) DeleteWalletKeys(ctx context.Context, accountID uuid.UUID) error {
	if err := s.vault.Delete(ctx, domain.BuildPrivateKeyVaultKey(accountID)); err != nil {
		return apperror.ErrVaultStorage("delete private key", err)
	}
	if err := s.vault.Delete(ctx, domain.BuildPublicKeyVaultKey(accountID)); err != nil {
		return apperror.ErrPartialStorage("private key deletion", "public key deletion", err)
	}
	return nil
}

// KeypairFromPrivateKey reconstructs a keypair from a hex-encoded private
// key. Pure and deterministic.
func (s *WalletServiceImpl) KeypairFromPrivateKey(privateKey string) (*domain.WalletKeyPair, error) {
	raw, err := hex.DecodeString(privateKey)
	if err != nil {
		return nil, apperror.ErrInvalidKeyFormat(err)
	}
	if len(raw) != privateKeyBytes {
		return nil, apperror.ErrInvalidKeyFormat(
			fmt.Errorf("expected %d key bytes, got %d", privateKeyBytes, len(raw)))
	}

	priv := solana.PrivateKey(raw)
	return &domain.WalletKeyPair{
		PublicKey:  priv.PublicKey().String(),
		PrivateKey: privateKey,
	}, nil
}

// RequestAirdrop submits a faucet request and blocks until the network
// confirms the resulting transaction. Only non-production tiers are
// allowed, and the amount is checked against the per-request cap before
// any RPC happens. Retries are the caller's business.
func (s *WalletServiceImpl) RequestAirdrop(ctx context.Context, publicKey string, amountSOL float64) (string, error) {
	if !s.network.AllowsAirdrop() {
		return "", apperror.ErrUnsupportedNetwork(string(s.network))
	}
	if amountSOL <= 0 {
		return "", apperror.Validation("airdrop amount must be positive")
	}
	if amountSOL > s.airdropCapSOL {
		return "", apperror.Validation(
			fmt.Sprintf("airdrop amount %.2f exceeds per-request cap of %.2f SOL", amountSOL, s.airdropCapSOL))
	}

	signature, err := s.chain.RequestAirdrop(ctx, publicKey, domain.SOLToLamports(amountSOL))
	if err != nil {
		return "", apperror.ErrNetwork("requestAirdrop", err)
	}

	// The request is on the wire now; a definite outcome is owed even if
	// the caller's context unwinds. Confirmation gets its own bounded wait.
	confirmCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	if err := s.chain.ConfirmTransaction(confirmCtx, signature); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperror.ErrConfirmationTimeout(signature)
		}
		return "", apperror.ErrNetwork("confirmTransaction", err)
	}

	s.log.Info().
		Str("public_key", publicKey).
		Float64("amount_sol", amountSOL).
		Str("signature", signature).
		Msg("airdrop confirmed")

	return signature, nil
}
