package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, from_account_id, to_account_id, to_email, to_wallet_address,
	currency, amount, status, type, signature, created_at, completed_at`

// Create appends a new ledger entry.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, from_account_id, to_account_id, to_email, to_wallet_address,
		currency, amount, status, type, signature, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.FromAccountID, t.ToAccountID, t.ToEmail, t.ToWalletAddress,
		t.Currency, t.Amount, t.Status, t.Type, t.Signature,
		t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID (non-locking read).
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, transactionColumns)

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a ledger entry with pessimistic locking so a
// status transition can be validated and applied atomically.
// This MUST be called within a transaction.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 FOR UPDATE`, transactionColumns)

	return r.scanTransaction(tx.QueryRow(ctx, query, id))
}

// ApplyUpdate writes the changed fields of a ledger entry within a
// database transaction. Nil fields are left untouched.
func (r *TransactionRepo) ApplyUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID, update ports.TransactionUpdate) error {
	var sets []string
	var args []any
	argIdx := 1

	if update.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *update.Status)
		argIdx++
	}
	if update.Signature != nil {
		sets = append(sets, fmt.Sprintf("signature = $%d", argIdx))
		args = append(args, *update.Signature)
		argIdx++
	}
	if update.Completed {
		sets = append(sets, "completed_at = NOW()")
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// ListBySender fetches entries sent by an account, newest first.
func (r *TransactionRepo) ListBySender(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE from_account_id = $1 ORDER BY created_at DESC LIMIT $2`, transactionColumns)

	return r.queryTransactions(ctx, query, accountID, limit)
}

// ListByRecipient fetches entries received by an account, newest first.
func (r *TransactionRepo) ListByRecipient(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE to_account_id = $1 ORDER BY created_at DESC LIMIT $2`, transactionColumns)

	return r.queryTransactions(ctx, query, accountID, limit)
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.FromAccountID, &t.ToAccountID, &t.ToEmail, &t.ToWalletAddress,
			&t.Currency, &t.Amount, &t.Status, &t.Type, &t.Signature,
			&t.CreatedAt, &t.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.FromAccountID, &t.ToAccountID, &t.ToEmail, &t.ToWalletAddress,
		&t.Currency, &t.Amount, &t.Status, &t.Type, &t.Signature,
		&t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
