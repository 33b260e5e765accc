package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory fakes in the style of the integration test doubles, shared by
// the service tests in this package.

// --- Secret Vault ---

type fakeVault struct {
	mu       sync.Mutex
	items    map[string]string
	failKeys map[string]error // Store/Delete on these keys fails
}

func newFakeVault() *fakeVault {
	return &fakeVault{
		items:    make(map[string]string),
		failKeys: make(map[string]error),
	}
}

func (v *fakeVault) Store(_ context.Context, key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err, ok := v.failKeys[key]; ok {
		return err
	}
	v.items[key] = value
	return nil
}

func (v *fakeVault) Get(_ context.Context, key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.items[key]
	return value, ok, nil
}

func (v *fakeVault) Delete(_ context.Context, key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err, ok := v.failKeys[key]; ok {
		return err
	}
	delete(v.items, key)
	return nil
}

// --- Chain Client ---

type fakeChain struct {
	mu           sync.Mutex
	balances     map[string]uint64
	rpcCalls     int
	airdropErr   error
	confirmErr   error
	confirmDelay time.Duration
	lastAirdrop  uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{balances: make(map[string]uint64)}
}

func (c *fakeChain) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rpcCalls++
	return c.balances[address], nil
}

func (c *fakeChain) RequestAirdrop(_ context.Context, address string, lamports uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rpcCalls++
	if c.airdropErr != nil {
		return "", c.airdropErr
	}
	c.lastAirdrop = lamports
	c.balances[address] += lamports
	return "5" + uuid.NewString()[:8] + "FakeSig", nil
}

func (c *fakeChain) ConfirmTransaction(ctx context.Context, _ string) error {
	c.mu.Lock()
	delay := c.confirmDelay
	err := c.confirmErr
	c.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (c *fakeChain) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rpcCalls
}

// --- Identity Provider ---

type idpAccount struct {
	account  *domain.Account
	password string
}

type fakeIdentityProvider struct {
	mu        sync.Mutex
	accounts  map[string]*idpAccount // by email
	signUpErr error
	resets    []string
	signOuts  []string
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{accounts: make(map[string]*idpAccount)}
}

func (p *fakeIdentityProvider) SignUp(_ context.Context, email, password string) (*domain.Account, *domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signUpErr != nil {
		return nil, nil, p.signUpErr
	}
	if _, exists := p.accounts[email]; exists {
		return nil, nil, apperror.ErrEmailExists()
	}
	acc := &domain.Account{ID: uuid.New(), Email: email, CreatedAt: time.Now().UTC()}
	p.accounts[email] = &idpAccount{account: acc, password: password}
	return acc, p.sessionFor(acc), nil
}

func (p *fakeIdentityProvider) SignIn(_ context.Context, email, password string) (*domain.Account, *domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.accounts[email]
	if !ok || entry.password != password {
		return nil, nil, apperror.ErrInvalidCredentials()
	}
	return entry.account, p.sessionFor(entry.account), nil
}

func (p *fakeIdentityProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts = append(p.signOuts, token)
	return nil
}

func (p *fakeIdentityProvider) GetAccount(_ context.Context, _ string) (*domain.Account, error) {
	return nil, apperror.ErrInvalidToken()
}

func (p *fakeIdentityProvider) ResetPassword(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets = append(p.resets, email)
	return nil
}

func (p *fakeIdentityProvider) sessionFor(acc *domain.Account) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		AccountID: acc.ID,
		Email:     acc.Email,
		Token:     "tok-" + uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// --- Profile Repository ---

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*domain.Profile
	createErr error
	setErr    error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *p
	r.profiles[p.AccountID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[accountID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) SetWalletAddress(_ context.Context, accountID uuid.UUID, walletAddress string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	p, ok := r.profiles[accountID]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.WalletAddress = &walletAddress
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProfileRepo) TouchLastLogin(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[accountID]; ok {
		p.LastLoginAt = time.Now().UTC()
	}
	return nil
}

// --- Transaction Repository ---

type fakeTxRepo struct {
	mu   sync.Mutex
	txns map[uuid.UUID]*domain.Transaction
	seq  int // insertion order for newest-first sorting
	ord  map[uuid.UUID]int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		txns: make(map[uuid.UUID]*domain.Transaction),
		ord:  make(map[uuid.UUID]int),
	}
}

func (r *fakeTxRepo) Create(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.txns[t.ID] = &cp
	r.seq++
	r.ord[t.ID] = r.seq
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTxRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTxRepo) ApplyUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID, update ports.TransactionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return fmt.Errorf("transaction not found: %s", id)
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
	return nil
}

func (r *fakeTxRepo) ListBySender(_ context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool { return t.FromAccountID == accountID }, limit), nil
}

func (r *fakeTxRepo) ListByRecipient(_ context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool {
		return t.ToAccountID != nil && *t.ToAccountID == accountID
	}, limit), nil
}

func (r *fakeTxRepo) list(match func(*domain.Transaction) bool, limit int) []domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if match(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.ord[out[i].ID] > r.ord[out[j].ID] // newest first
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeTxRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txns)
}

// --- Balance Repository ---

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]*domain.WalletBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*domain.WalletBalance)}
}

func balanceKey(accountID uuid.UUID, currency string) string {
	return accountID.String() + ":" + currency
}

func (r *fakeBalanceRepo) Upsert(_ context.Context, b *domain.WalletBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.balances[balanceKey(b.AccountID, b.Currency)] = &cp
	return nil
}

func (r *fakeBalanceRepo) Get(_ context.Context, accountID uuid.UUID, currency string) (*domain.WalletBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey(accountID, currency)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBalanceRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.WalletBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WalletBalance
	for _, b := range r.balances {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// --- DB Transactor ---

// fakeTx implements pgx.Tx for tests; the fakes ignore it.
type fakeTx struct{ pgx.Tx }

func (m *fakeTx) Rollback(_ context.Context) error { return nil }
func (m *fakeTx) Commit(_ context.Context) error   { return nil }

type fakeTransactor struct{}

func (f *fakeTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

// --- Settler ---

type fakeSettler struct {
	mu      sync.Mutex
	err     error
	settled []uuid.UUID
}

func (s *fakeSettler) Settle(_ context.Context, t *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.settled = append(s.settled, t.ID)
	return nil
}
