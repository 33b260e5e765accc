package service

import (
	"context"
	"fmt"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultHistoryLimit = 10

// statsWindow bounds how much history feeds the per-user aggregates.
const statsWindow = 100

// LedgerServiceImpl implements ports.LedgerService. It appends and
// transitions ledger entries; it never creates wallets and never moves
// funds itself — settlement is the Settler's job.
type LedgerServiceImpl struct {
	txRepo      ports.TransactionRepository
	profileRepo ports.ProfileRepository
	balanceRepo ports.BalanceRepository
	transactor  ports.DBTransactor
	walletSvc   ports.WalletService
	settler     ports.Settler
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	txRepo ports.TransactionRepository,
	profileRepo ports.ProfileRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	walletSvc ports.WalletService,
	settler ports.Settler,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:      txRepo,
		profileRepo: profileRepo,
		balanceRepo: balanceRepo,
		transactor:  transactor,
		walletSvc:   walletSvc,
		settler:     settler,
		log:         log,
	}
}

// RecordTransaction appends a ledger entry in pending status and returns
// its identifier. Pure append.
func (s *LedgerServiceImpl) RecordTransaction(ctx context.Context, entry ports.NewTransaction) (uuid.UUID, error) {
	if entry.Amount < 0 {
		return uuid.Nil, apperror.Validation("amount must be non-negative")
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   entry.FromAccountID,
		ToAccountID:     entry.ToAccountID,
		ToEmail:         entry.ToEmail,
		ToWalletAddress: entry.ToWalletAddress,
		Currency:        entry.Currency,
		Amount:          entry.Amount,
		Status:          domain.TransactionStatusPending,
		Type:            entry.Type,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.txRepo.Create(ctx, txn); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("record transaction: %w", err))
	}
	return txn.ID, nil
}

// UpdateTransaction applies status/metadata changes under a row lock.
// Any update that would move an entry out of a terminal status is
// rejected; the ledger store stays the source of truth for ordering, so
// interleaved completions race here and exactly one wins.
func (s *LedgerServiceImpl) UpdateTransaction(ctx context.Context, id uuid.UUID, update ports.TransactionUpdate) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	current, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if current == nil {
		return apperror.ErrNotFound("transaction")
	}

	if update.Status != nil {
		if !current.Status.CanTransitionTo(*update.Status) {
			return apperror.ErrInvalidTransition(string(current.Status), string(*update.Status))
		}
		if update.Status.IsTerminal() {
			update.Completed = true
		}
	}

	if err := s.txRepo.ApplyUpdate(ctx, dbTx, id, update); err != nil {
		return apperror.InternalError(fmt.Errorf("apply transaction update: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// SendToEmail resolves the recipient before anything else touches the
// ledger. An unresolved email is a business outcome, not a fault: the
// call returns RecipientNotFound and writes no transaction at all. On
// resolution the entry is recorded pending, handed to the settler and
// transitioned to its terminal status.
func (s *LedgerServiceImpl) SendToEmail(ctx context.Context, fromAccountID uuid.UUID, toEmail, currency string, amount float64) (*ports.SendResult, error) {
	if amount <= 0 {
		return nil, apperror.Validation("send amount must be positive")
	}

	email := domain.NormalizeEmail(toEmail)
	recipient, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve recipient: %w", err))
	}
	if recipient == nil {
		return &ports.SendResult{
			Status:  ports.SendStatusRecipientNotFound,
			Message: "Email address is not registered on our platform",
		}, nil
	}

	toAccountID := recipient.AccountID
	txID, err := s.RecordTransaction(ctx, ports.NewTransaction{
		FromAccountID:   fromAccountID,
		ToAccountID:     &toAccountID,
		ToEmail:         &email,
		ToWalletAddress: recipient.WalletAddress,
		Currency:        currency,
		Amount:          amount,
		Type:            domain.TransactionTypeSend,
	})
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:            txID,
		FromAccountID: fromAccountID,
		ToAccountID:   &toAccountID,
		Currency:      currency,
		Amount:        amount,
		Type:          domain.TransactionTypeSend,
	}

	if err := s.settler.Settle(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txID.String()).Msg("settlement failed")
		failed := domain.TransactionStatusFailed
		if uerr := s.UpdateTransaction(ctx, txID, ports.TransactionUpdate{Status: &failed}); uerr != nil {
			return nil, uerr
		}
		return &ports.SendResult{
			Status:        ports.SendStatusFailed,
			Message:       "Failed to send transaction. Please try again.",
			TransactionID: &txID,
		}, nil
	}

	completed := domain.TransactionStatusCompleted
	if err := s.UpdateTransaction(ctx, txID, ports.TransactionUpdate{Status: &completed}); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txID.String()).
		Str("from", fromAccountID.String()).
		Str("to", toAccountID.String()).
		Float64("amount", amount).
		Str("currency", currency).
		Msg("send completed")

	return &ports.SendResult{
		Status:        ports.SendStatusCompleted,
		Message:       fmt.Sprintf("Successfully sent %g %s to %s", amount, currency, email),
		TransactionID: &txID,
	}, nil
}

// GetUserTransactions returns entries sent by an account, newest first.
func (s *LedgerServiceImpl) GetUserTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	txns, err := s.txRepo.ListBySender(ctx, accountID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list sent transactions: %w", err))
	}
	return txns, nil
}

// GetReceivedTransactions returns entries received by an account, newest first.
func (s *LedgerServiceImpl) GetReceivedTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	txns, err := s.txRepo.ListByRecipient(ctx, accountID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list received transactions: %w", err))
	}
	return txns, nil
}

// GetUserStats aggregates completed sent/received amounts and cached
// balances. Empty history means zeros.
func (s *LedgerServiceImpl) GetUserStats(ctx context.Context, accountID uuid.UUID) (*ports.UserStats, error) {
	sent, err := s.txRepo.ListBySender(ctx, accountID, statsWindow)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list sent: %w", err))
	}
	received, err := s.txRepo.ListByRecipient(ctx, accountID, statsWindow)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list received: %w", err))
	}
	balances, err := s.balanceRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list balances: %w", err))
	}

	stats := &ports.UserStats{
		TransactionCount: len(sent) + len(received),
		Balances:         balances,
	}
	for _, t := range sent {
		if t.Status == domain.TransactionStatusCompleted {
			stats.TotalSent += t.Amount
		}
	}
	for _, t := range received {
		if t.Status == domain.TransactionStatusCompleted {
			stats.TotalReceived += t.Amount
		}
	}
	for _, b := range balances {
		stats.TotalBalance += b.Balance
	}
	return stats, nil
}

// RequestAirdropAndRecord funds a wallet from the faucet and records the
// confirmed funding as an airdrop ledger entry.
func (s *LedgerServiceImpl) RequestAirdropAndRecord(ctx context.Context, accountID uuid.UUID, walletAddress string, amountSOL float64) (*ports.SendResult, error) {
	signature, err := s.walletSvc.RequestAirdrop(ctx, walletAddress, amountSOL)
	if err != nil {
		return nil, err
	}

	txID, err := s.RecordTransaction(ctx, ports.NewTransaction{
		FromAccountID:   accountID,
		ToAccountID:     &accountID,
		ToWalletAddress: &walletAddress,
		Currency:        "SOL",
		Amount:          amountSOL,
		Type:            domain.TransactionTypeAirdrop,
	})
	if err != nil {
		return nil, err
	}

	completed := domain.TransactionStatusCompleted
	if err := s.UpdateTransaction(ctx, txID, ports.TransactionUpdate{
		Status:    &completed,
		Signature: &signature,
	}); err != nil {
		return nil, err
	}

	return &ports.SendResult{
		Status:        ports.SendStatusCompleted,
		Message:       fmt.Sprintf("Airdrop of %g SOL confirmed (%s)", amountSOL, signature),
		TransactionID: &txID,
	}, nil
}

// UpdateWalletBalance refreshes the cached balance for (account, currency).
func (s *LedgerServiceImpl) UpdateWalletBalance(ctx context.Context, accountID uuid.UUID, currency string, balance float64) error {
	if balance < 0 {
		return apperror.Validation("balance must be non-negative")
	}
	err := s.balanceRepo.Upsert(ctx, &domain.WalletBalance{
		AccountID:   accountID,
		Currency:    currency,
		Balance:     balance,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		return apperror.InternalError(fmt.Errorf("upsert balance: %w", err))
	}
	return nil
}

// GetWalletBalance reads the cached balance; a missing row reads as zero.
func (s *LedgerServiceImpl) GetWalletBalance(ctx context.Context, accountID uuid.UUID, currency string) (float64, error) {
	b, err := s.balanceRepo.Get(ctx, accountID, currency)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	if b == nil {
		return 0, nil
	}
	return b.Balance, nil
}
