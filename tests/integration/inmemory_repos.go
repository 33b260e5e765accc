package integration

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory implementations of the persistence ports. They back the full
// HTTP stack in these tests so the real handlers, middleware and services
// run end-to-end without a PostgreSQL instance. Locking mirrors what the
// row-level locks give us in production: transaction status transitions
// are serialized.

// --- Account repo ---

type inMemoryAccountRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]domain.Account
	byEmail map[string]uuid.UUID
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{
		byID:    make(map[uuid.UUID]domain.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *inMemoryAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[account.Email]; ok {
		return errors.New("duplicate email")
	}
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *inMemoryAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.byID[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[email]; ok {
		cp := r.byID[id]
		return &cp, nil
	}
	return nil, nil
}

// --- Profile repo ---

type inMemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.Profile
}

func newInMemoryProfileRepo() *inMemoryProfileRepo {
	return &inMemoryProfileRepo{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *inMemoryProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.AccountID] = *profile
	return nil
}

func (r *inMemoryProfileRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[accountID]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProfileRepo) SetWalletAddress(_ context.Context, accountID uuid.UUID, walletAddress string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[accountID]
	if !ok {
		return errors.New("profile not found")
	}
	p.WalletAddress = &walletAddress
	r.profiles[accountID] = p
	return nil
}

func (r *inMemoryProfileRepo) TouchLastLogin(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[accountID]
	if !ok {
		return errors.New("profile not found")
	}
	p.LastLoginAt = time.Now().UTC()
	r.profiles[accountID] = p
	return nil
}

// --- Transaction repo ---

type inMemoryTransactionRepo struct {
	mu   sync.Mutex
	txns map[uuid.UUID]domain.Transaction
	seq  int64
	ord  map[uuid.UUID]int64
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		txns: make(map[uuid.UUID]domain.Transaction),
		ord:  make(map[uuid.UUID]int64),
	}
}

func (r *inMemoryTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.txns[t.ID] = *t
	r.ord[t.ID] = r.seq
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txns[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) ApplyUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID, update ports.TransactionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return errors.New("transaction not found")
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Signature != nil {
		t.Signature = update.Signature
	}
	if update.Completed {
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	r.txns[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) ListBySender(_ context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.FromAccountID == accountID {
			out = append(out, t)
		}
	}
	r.sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) ListByRecipient(_ context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.ToAccountID != nil && *t.ToAccountID == accountID {
			out = append(out, t)
		}
	}
	r.sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) sortNewestFirst(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		return r.ord[txns[i].ID] > r.ord[txns[j].ID]
	})
}

func (r *inMemoryTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txns)
}

// --- Balance repo ---

type balanceKey struct {
	accountID uuid.UUID
	currency  string
}

type inMemoryBalanceRepo struct {
	mu       sync.RWMutex
	balances map[balanceKey]domain.WalletBalance
}

func newInMemoryBalanceRepo() *inMemoryBalanceRepo {
	return &inMemoryBalanceRepo{balances: make(map[balanceKey]domain.WalletBalance)}
}

func (r *inMemoryBalanceRepo) Upsert(_ context.Context, balance *domain.WalletBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey{balance.AccountID, balance.Currency}] = *balance
	return nil
}

func (r *inMemoryBalanceRepo) Get(_ context.Context, accountID uuid.UUID, currency string) (*domain.WalletBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.balances[balanceKey{accountID, currency}]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryBalanceRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.WalletBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.WalletBalance
	for k, b := range r.balances {
		if k.accountID == accountID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

// --- Transactor ---

type inMemoryTx struct {
	pgx.Tx
}

func (t *inMemoryTx) Commit(context.Context) error   { return nil }
func (t *inMemoryTx) Rollback(context.Context) error { return nil }

// inMemoryTransactor serializes "transactions" with a mutex, standing in
// for row-level locking in these tests.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	tx := &lockedTx{release: t.mu.Unlock}
	return tx, nil
}

type lockedTx struct {
	inMemoryTx
	release func()
	done    atomic.Bool
}

func (t *lockedTx) Commit(context.Context) error {
	if t.done.CompareAndSwap(false, true) {
		t.release()
	}
	return nil
}

func (t *lockedTx) Rollback(context.Context) error {
	if t.done.CompareAndSwap(false, true) {
		t.release()
	}
	return nil
}

// --- Chain client ---

// inMemoryChain simulates the RPC boundary: airdrops credit a balance
// table keyed by address and confirm instantly.
type inMemoryChain struct {
	mu       sync.Mutex
	balances map[string]uint64
	airdrops int
}

func newInMemoryChain() *inMemoryChain {
	return &inMemoryChain{balances: make(map[string]uint64)}
}

func (c *inMemoryChain) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balances[address], nil
}

func (c *inMemoryChain) RequestAirdrop(_ context.Context, address string, lamports uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[address] += lamports
	c.airdrops++
	return uuid.NewString(), nil
}

func (c *inMemoryChain) ConfirmTransaction(context.Context, string) error {
	return nil
}

func (c *inMemoryChain) airdropCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.airdrops
}
