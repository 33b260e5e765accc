package postgres

import (
	"context"
	"errors"
	"fmt"

	"solafi-wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProfileRepo implements ports.ProfileRepository.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Create inserts a new profile into the database.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (account_id, email, wallet_address, display_name, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.AccountID, p.Email, p.WalletAddress, p.DisplayName,
		p.CreatedAt, p.UpdatedAt, p.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByAccountID fetches a profile by account UUID.
func (r *ProfileRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT account_id, email, wallet_address, display_name, created_at, updated_at, last_login_at
		FROM profiles WHERE account_id = $1`

	return r.scanProfile(r.pool.QueryRow(ctx, query, accountID))
}

// GetByEmail fetches a profile by email. This is the recipient-resolution
// lookup for email sends; emails are stored normalized.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT account_id, email, wallet_address, display_name, created_at, updated_at, last_login_at
		FROM profiles WHERE email = $1`

	return r.scanProfile(r.pool.QueryRow(ctx, query, email))
}

// SetWalletAddress binds a wallet address to a profile.
func (r *ProfileRepo) SetWalletAddress(ctx context.Context, accountID uuid.UUID, walletAddress string) error {
	query := `UPDATE profiles SET wallet_address = $1, updated_at = NOW() WHERE account_id = $2`

	tag, err := r.pool.Exec(ctx, query, walletAddress, accountID)
	if err != nil {
		return fmt.Errorf("set wallet address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", accountID)
	}
	return nil
}

// TouchLastLogin stamps the profile's last login time.
func (r *ProfileRepo) TouchLastLogin(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE profiles SET last_login_at = NOW() WHERE account_id = $1`

	tag, err := r.pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", accountID)
	}
	return nil
}

func (r *ProfileRepo) scanProfile(row pgx.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.AccountID, &p.Email, &p.WalletAddress, &p.DisplayName,
		&p.CreatedAt, &p.UpdatedAt, &p.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}
