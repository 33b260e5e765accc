package domain

import (
	"time"

	"github.com/google/uuid"
)

// LamportsPerSOL is the fixed conversion factor between the smallest
// on-chain unit and the display unit.
const LamportsPerSOL = 1_000_000_000

// Network identifies a Solana cluster tier.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
	NetworkMainnet Network = "mainnet-beta"
)

// AllowsAirdrop reports whether the network tier permits faucet funding.
// Production never does.
func (n Network) AllowsAirdrop() bool {
	return n == NetworkDevnet || n == NetworkTestnet
}

// WalletKeyPair is a public/private key pair for one blockchain account.
// The private key is hex-encoded at rest and must never leave the vault
// except transiently in memory for signing or derivation.
type WalletKeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"-"`
}

// WalletBalance is the last-known balance per (account, currency).
// Not authoritative: always re-derivable from the network.
type WalletBalance struct {
	AccountID   uuid.UUID `json:"account_id"`
	Currency    string    `json:"currency"`
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"last_updated"`
}

// LamportsToSOL converts the smallest on-chain unit to the display unit.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}

// SOLToLamports converts a display amount to the smallest on-chain unit.
func SOLToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSOL)
}
