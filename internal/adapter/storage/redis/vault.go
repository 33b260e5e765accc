package redis

import (
	"context"
	"errors"
	"fmt"

	"solafi-wallet-core/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// Vault implements ports.SecretVault on Redis with AES-GCM encryption at
// rest. Callers pass scoped keys (wallet:privkey:<id>, auth:session); the
// vault adds its own namespace prefix and never inspects the value.
type Vault struct {
	client *goredis.Client
	enc    ports.EncryptionService
	prefix string
}

// NewVault creates a Redis-backed secret vault.
func NewVault(client *goredis.Client, enc ports.EncryptionService) *Vault {
	return &Vault{
		client: client,
		enc:    enc,
		prefix: "vault:",
	}
}

// Store encrypts and persists a secret. Secrets have no TTL; they live
// until explicitly deleted.
func (v *Vault) Store(ctx context.Context, key, value string) error {
	ciphertext, err := v.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt secret: %w", err)
	}
	if err := v.client.Set(ctx, v.prefix+key, ciphertext, 0).Err(); err != nil {
		return fmt.Errorf("vault store: %w", err)
	}
	return nil
}

// Get fetches and decrypts a secret. A missing key is (,"", false, nil).
func (v *Vault) Get(ctx context.Context, key string) (string, bool, error) {
	ciphertext, err := v.client.Get(ctx, v.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("vault get: %w", err)
	}

	plaintext, err := v.enc.Decrypt(ciphertext)
	if err != nil {
		return "", false, fmt.Errorf("decrypt secret: %w", err)
	}
	return plaintext, true, nil
}

// Delete removes a secret. Deleting an absent key is not an error.
func (v *Vault) Delete(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, v.prefix+key).Err(); err != nil {
		return fmt.Errorf("vault delete: %w", err)
	}
	return nil
}
