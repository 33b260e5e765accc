package postgres

import (
	"context"
	"errors"
	"fmt"

	"solafi-wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository. The cached balances are
// a convenience snapshot; the chain stays authoritative.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Upsert writes the cached balance for (account, currency).
func (r *BalanceRepo) Upsert(ctx context.Context, b *domain.WalletBalance) error {
	query := `INSERT INTO wallet_balances (account_id, currency, balance, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, currency)
		DO UPDATE SET balance = EXCLUDED.balance, last_updated = EXCLUDED.last_updated`

	_, err := r.pool.Exec(ctx, query, b.AccountID, b.Currency, b.Balance, b.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert wallet balance: %w", err)
	}
	return nil
}

// Get fetches the cached balance for (account, currency).
func (r *BalanceRepo) Get(ctx context.Context, accountID uuid.UUID, currency string) (*domain.WalletBalance, error) {
	query := `SELECT account_id, currency, balance, last_updated
		FROM wallet_balances WHERE account_id = $1 AND currency = $2`

	b := &domain.WalletBalance{}
	err := r.pool.QueryRow(ctx, query, accountID, currency).Scan(
		&b.AccountID, &b.Currency, &b.Balance, &b.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet balance: %w", err)
	}
	return b, nil
}

// ListByAccount fetches all cached balances for an account.
func (r *BalanceRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.WalletBalance, error) {
	query := `SELECT account_id, currency, balance, last_updated
		FROM wallet_balances WHERE account_id = $1 ORDER BY currency`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list wallet balances: %w", err)
	}
	defer rows.Close()

	var balances []domain.WalletBalance
	for rows.Next() {
		b := domain.WalletBalance{}
		if err := rows.Scan(&b.AccountID, &b.Currency, &b.Balance, &b.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan wallet balance row: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet balance rows: %w", err)
	}
	return balances, nil
}
