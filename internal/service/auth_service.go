package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService. It is the entry point for
// account creation and login, and the only caller of wallet creation:
// once, at registration.
type AuthServiceImpl struct {
	idp         ports.IdentityProvider
	walletSvc   ports.WalletService
	profileRepo ports.ProfileRepository
	vault       ports.SecretVault
	log         zerolog.Logger

	mu          sync.Mutex
	subscribers map[int]chan ports.SessionEvent
	nextSubID   int
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	idp ports.IdentityProvider,
	walletSvc ports.WalletService,
	profileRepo ports.ProfileRepository,
	vault ports.SecretVault,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		idp:         idp,
		walletSvc:   walletSvc,
		profileRepo: profileRepo,
		vault:       vault,
		log:         log,
		subscribers: make(map[int]chan ports.SessionEvent),
	}
}

// Register creates an account with the identity provider, then provisions
// a wallet for it: generate keypair, persist both halves to the vault,
// bind the public address to the profile. A provider rejection terminates
// with no wallet side effects. Any later failure leaves the account
// registered; ProvisionWallet resumes from whatever state was reached
// instead of re-registering.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*ports.RegistrationResult, error) {
	email = domain.NormalizeEmail(email)

	account, session, err := s.idp.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	address, err := s.ProvisionWallet(ctx, account.ID, email)
	if err != nil {
		// Account exists but the wallet pipeline stalled. Surface the error
		// with the account attached so the caller can resume.
		s.log.Error().Err(err).
			Str("account_id", account.ID.String()).
			Msg("registration: wallet provisioning incomplete, resumable via ProvisionWallet")
		return nil, err
	}

	return &ports.RegistrationResult{
		Account:       account,
		Session:       session,
		WalletAddress: address,
	}, nil
}

// ProvisionWallet walks the post-registration steps idempotently:
//
//	vault has public key              -> bind it to the profile
//	vault has only the private key    -> re-derive, re-store, bind
//	vault empty                       -> generate, store, bind
//
// An already-stored key is never regenerated; doing so would orphan the
// vault-resident private key.
func (s *AuthServiceImpl) ProvisionWallet(ctx context.Context, accountID uuid.UUID, email string) (string, error) {
	publicKey, found, err := s.walletSvc.GetWalletPublicKey(ctx, accountID)
	if err != nil {
		return "", err
	}

	if !found {
		privateKey, privFound, err := s.walletSvc.GetWalletKey(ctx, accountID)
		if err != nil {
			return "", err
		}

		if privFound {
			// The public half went missing mid-write. Re-derive and re-store
			// from the surviving private key.
			kp, err := s.walletSvc.KeypairFromPrivateKey(privateKey)
			if err != nil {
				return "", err
			}
			if err := s.walletSvc.StoreWalletKey(ctx, accountID, privateKey); err != nil {
				return "", err
			}
			publicKey = kp.PublicKey
		} else {
			kp, err := s.walletSvc.CreateWallet()
			if err != nil {
				return "", err
			}
			// kp.PrivateKey stays in this scope until the vault confirms the
			// write; it is never logged or sent anywhere else.
			if err := s.walletSvc.StoreWalletKey(ctx, accountID, kp.PrivateKey); err != nil {
				return "", err
			}
			publicKey = kp.PublicKey
		}
	}

	if err := s.bindWalletToProfile(ctx, accountID, email, publicKey); err != nil {
		return "", err
	}

	return publicKey, nil
}

// bindWalletToProfile writes the wallet address and email into the
// profile record, creating the profile if this account predates one.
func (s *AuthServiceImpl) bindWalletToProfile(ctx context.Context, accountID uuid.UUID, email, walletAddress string) error {
	profile, err := s.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("fetch profile: %w", err))
	}

	if profile == nil {
		now := time.Now().UTC()
		profile = &domain.Profile{
			AccountID:     accountID,
			Email:         email,
			WalletAddress: &walletAddress,
			CreatedAt:     now,
			UpdatedAt:     now,
			LastLoginAt:   now,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return apperror.InternalError(fmt.Errorf("create profile: %w", err))
		}
		return nil
	}

	if profile.HasWallet() && *profile.WalletAddress == walletAddress {
		return nil
	}
	if err := s.profileRepo.SetWalletAddress(ctx, accountID, walletAddress); err != nil {
		return apperror.InternalError(fmt.Errorf("bind wallet address: %w", err))
	}
	return nil
}

// Login authenticates credentials remotely, lazily creates the profile
// for accounts that predate this core or stalled mid-registration,
// persists the session in the vault and stamps the last login.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = domain.NormalizeEmail(email)

	account, session, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch profile: %w", err))
	}
	if profile == nil {
		now := time.Now().UTC()
		profile = &domain.Profile{
			AccountID:   account.ID,
			Email:       email,
			CreatedAt:   now,
			UpdatedAt:   now,
			LastLoginAt: now,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create profile on login: %w", err))
		}
	} else {
		if err := s.profileRepo.TouchLastLogin(ctx, account.ID); err != nil {
			s.log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("failed to stamp last login")
		}
	}

	if err := s.storeSession(ctx, session); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session in vault; offline resume unavailable")
	}

	s.publish(ports.SessionEvent{Type: ports.SessionSignedIn, Session: session})
	return session, nil
}

// Logout deletes the device-side session first — that must succeed so the
// session cannot be replayed locally — then invalidates it remotely on a
// best-effort basis.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	session, found, err := s.CurrentSession(ctx)
	if err != nil {
		return err
	}

	if err := s.vault.Delete(ctx, domain.SessionVaultKey); err != nil {
		return apperror.ErrVaultStorage("delete session", err)
	}

	if found {
		if err := s.idp.SignOut(ctx, session.Token); err != nil {
			s.log.Warn().Err(err).Msg("remote sign-out failed; local session already cleared")
		}
	}

	s.publish(ports.SessionEvent{Type: ports.SessionSignedOut})
	return nil
}

// CurrentSession reads the vault-resident session. Expired sessions are
// treated as absent.
func (s *AuthServiceImpl) CurrentSession(ctx context.Context) (*domain.Session, bool, error) {
	raw, found, err := s.vault.Get(ctx, domain.SessionVaultKey)
	if err != nil {
		return nil, false, apperror.ErrVaultStorage("get session", err)
	}
	if !found {
		return nil, false, nil
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("decode stored session: %w", err))
	}
	if session.IsExpired(time.Now()) {
		return nil, false, nil
	}
	return &session, true, nil
}

// GetProfile fetches a profile by account id.
func (s *AuthServiceImpl) GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	return profile, nil
}

// ReassociateWallet explicitly changes the wallet address bound to a
// profile. This is the only path that may overwrite an existing address;
// login never does it as a side effect.
func (s *AuthServiceImpl) ReassociateWallet(ctx context.Context, accountID uuid.UUID, walletAddress string) error {
	profile, err := s.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("fetch profile: %w", err))
	}
	if profile == nil {
		return apperror.ErrNotFound("profile")
	}
	if err := s.profileRepo.SetWalletAddress(ctx, accountID, walletAddress); err != nil {
		return apperror.InternalError(fmt.Errorf("reassociate wallet: %w", err))
	}
	s.log.Info().
		Str("account_id", accountID.String()).
		Str("wallet_address", walletAddress).
		Msg("wallet re-associated")
	return nil
}

// ResetPassword initiates a password reset with the identity provider.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email string) error {
	return s.idp.ResetPassword(ctx, domain.NormalizeEmail(email))
}

// Subscribe registers a session-change listener. The returned cancel
// function removes it. Reacting to events is the presentation layer's
// job, not this core's.
func (s *AuthServiceImpl) Subscribe() (<-chan ports.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan ports.SessionEvent, 4)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (s *AuthServiceImpl) publish(event ports.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscribers drop events rather than block auth flows.
		}
	}
}

func (s *AuthServiceImpl) storeSession(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.vault.Store(ctx, domain.SessionVaultKey, string(raw))
}
