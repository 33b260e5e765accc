package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of value movement.
type TransactionType string

const (
	TransactionTypeSend    TransactionType = "send"
	TransactionTypeReceive TransactionType = "receive"
	TransactionTypeBuy     TransactionType = "buy"
	TransactionTypeAirdrop TransactionType = "airdrop"
)

// TransactionStatus represents the lifecycle state of a ledger entry.
// Transitions are monotone: pending -> completed or pending -> failed,
// never reversed, never skipped.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == TransactionStatusPending &&
		(next == TransactionStatusCompleted || next == TransactionStatusFailed)
}

// Transaction is one ledger entry for a value-movement attempt.
// Recording a transaction does not itself move funds.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	FromAccountID   uuid.UUID         `json:"from_account_id"`
	ToAccountID     *uuid.UUID        `json:"to_account_id,omitempty"`
	ToEmail         *string           `json:"to_email,omitempty"`
	ToWalletAddress *string           `json:"to_wallet_address,omitempty"`
	Currency        string            `json:"currency"`
	Amount          float64           `json:"amount"`
	Status          TransactionStatus `json:"status"`
	Type            TransactionType   `json:"type"`
	Signature       *string           `json:"signature,omitempty"` // on-chain signature, if any
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}
