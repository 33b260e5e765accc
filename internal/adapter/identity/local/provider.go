package local

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

// Provider implements ports.IdentityProvider against the local account
// store: Argon2id password hashes at rest, JWT bearer sessions. It is the
// drop-in replacement for a hosted identity backend.
type Provider struct {
	accounts ports.AccountRepository
	hasher   ports.HashService
	tokens   ports.TokenService
	log      zerolog.Logger
}

// New creates a local identity provider.
func New(accounts ports.AccountRepository, hasher ports.HashService, tokens ports.TokenService, log zerolog.Logger) *Provider {
	return &Provider{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
	}
}

const minPasswordLength = 8

// SignUp creates an account and opens its first session. Email uniqueness
// is enforced here; callers see AUTH_002 on duplicates.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Account, *domain.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, nil, apperror.Validation("email is required")
	}
	if len(password) < minPasswordLength {
		return nil, nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	existing, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lookup account: %w", err))
	}
	if existing != nil {
		return nil, nil, apperror.ErrEmailExists()
	}

	hash, err := p.hasher.Hash(password)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	session, err := p.openSession(account)
	if err != nil {
		return nil, nil, err
	}

	p.log.Info().
		Str("account_id", account.ID.String()).
		Msg("account registered")

	return account, session, nil
}

// SignIn verifies credentials and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Account, *domain.Session, error) {
	email = domain.NormalizeEmail(email)

	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lookup account: %w", err))
	}
	if account == nil {
		return nil, nil, apperror.ErrInvalidCredentials()
	}

	ok, err := p.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return nil, nil, apperror.ErrInvalidCredentials()
	}

	session, err := p.openSession(account)
	if err != nil {
		return nil, nil, err
	}
	return account, session, nil
}

// SignOut invalidates a session. JWTs are stateless, so the local
// provider has nothing to revoke server-side; the caller already removed
// the device copy.
func (p *Provider) SignOut(_ context.Context, _ string) error {
	return nil
}

// GetAccount resolves a bearer token to its account.
func (p *Provider) GetAccount(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	account, err := p.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidToken()
	}
	return account, nil
}

// ResetPassword initiates a reset flow. The outcome is identical whether
// or not the email exists, so the endpoint cannot be used to enumerate
// accounts.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup account: %w", err))
	}
	if account != nil {
		// Mail delivery is out of scope for the core; downstream wiring
		// consumes this log event.
		p.log.Info().
			Str("account_id", account.ID.String()).
			Msg("password reset requested")
	}
	return nil
}

func (p *Provider) openSession(account *domain.Account) (*domain.Session, error) {
	token, expiresAt, err := p.tokens.Generate(account.ID, account.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate session token: %w", err))
	}
	return &domain.Session{
		AccountID: account.ID,
		Email:     account.Email,
		Token:     token,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt,
	}, nil
}
