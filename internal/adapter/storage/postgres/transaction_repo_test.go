package postgres

import (
	"context"
	"testing"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(from uuid.UUID) *domain.Transaction {
	to := uuid.New()
	email := "receiver@example.com"
	return &domain.Transaction{
		ID:            uuid.New(),
		FromAccountID: from,
		ToAccountID:   &to,
		ToEmail:       &email,
		Currency:      "SOL",
		Amount:        1.5,
		Status:        domain.TransactionStatusPending,
		Type:          domain.TransactionTypeSend,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionRowColumns() []string {
	return []string{"id", "from_account_id", "to_account_id", "to_email", "to_wallet_address",
		"currency", "amount", "status", "type", "signature", "created_at", "completed_at"}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionRowColumns()).AddRow(
		t.ID, t.FromAccountID, t.ToAccountID, t.ToEmail, t.ToWalletAddress,
		t.Currency, t.Amount, t.Status, t.Type, t.Signature,
		t.CreatedAt, t.CompletedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.FromAccountID, txn.ToAccountID, txn.ToEmail, txn.ToWalletAddress,
			txn.Currency, txn.Amount, txn.Status, txn.Type, txn.Signature,
			txn.CreatedAt, txn.CompletedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err, "missing row is not an error")
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id = \\$1 FOR UPDATE").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))
	mock.ExpectCommit()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)

	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ApplyUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	completed := domain.TransactionStatusCompleted
	signature := "5SigExample"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status = \\$1, signature = \\$2, completed_at = NOW\\(\\) WHERE id = \\$3").
		WithArgs(completed, signature, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.ApplyUpdate(context.Background(), tx, id, ports.TransactionUpdate{
		Status:    &completed,
		Signature: &signature,
		Completed: true,
	})
	require.NoError(t, err)

	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ApplyUpdate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	failed := domain.TransactionStatusFailed

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET").
		WithArgs(failed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.ApplyUpdate(context.Background(), tx, id, ports.TransactionUpdate{Status: &failed})
	assert.ErrorContains(t, err, "transaction not found")
}

func TestTransactionRepo_ListBySender(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	from := uuid.New()
	first := newTestTransaction(from)
	second := newTestTransaction(from)

	rows := pgxmock.NewRows(transactionRowColumns()).
		AddRow(first.ID, first.FromAccountID, first.ToAccountID, first.ToEmail, first.ToWalletAddress,
			first.Currency, first.Amount, first.Status, first.Type, first.Signature,
			first.CreatedAt, first.CompletedAt).
		AddRow(second.ID, second.FromAccountID, second.ToAccountID, second.ToEmail, second.ToWalletAddress,
			second.Currency, second.Amount, second.Status, second.Type, second.Signature,
			second.CreatedAt, second.CompletedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions\\s+WHERE from_account_id = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs(from, 10).
		WillReturnRows(rows)

	txns, err := repo.ListBySender(context.Background(), from, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, first.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByRecipient_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	accountID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions\\s+WHERE to_account_id = \\$1").
		WithArgs(accountID, 10).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns()))

	txns, err := repo.ListByRecipient(context.Background(), accountID, 10)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}
