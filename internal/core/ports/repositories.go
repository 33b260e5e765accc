package ports

import (
	"context"

	"solafi-wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for identity accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	SetWalletAddress(ctx context.Context, accountID uuid.UUID, walletAddress string) error
	TouchLastLogin(ctx context.Context, accountID uuid.UUID) error
}

// TransactionRepository defines persistence operations for ledger entries.
// Methods accepting pgx.Tx run inside transaction blocks so status
// transitions can be guarded under a row lock.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	ApplyUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID, update TransactionUpdate) error
	ListBySender(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)
	ListByRecipient(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)
}

// TransactionUpdate holds the mutable fields of a ledger entry. Nil means
// leave unchanged. Status transitions are validated by the service before
// this is applied.
type TransactionUpdate struct {
	Status    *domain.TransactionStatus
	Signature *string
	Completed bool // set completed_at = now()
}

// BalanceRepository defines persistence for the non-authoritative
// per-(account, currency) balance cache.
type BalanceRepository interface {
	Upsert(ctx context.Context, balance *domain.WalletBalance) error
	Get(ctx context.Context, accountID uuid.UUID, currency string) (*domain.WalletBalance, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.WalletBalance, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
