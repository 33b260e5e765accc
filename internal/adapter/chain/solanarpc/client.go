package solanarpc

import (
	"context"
	"fmt"
	"time"

	"solafi-wallet-core/config"
	"solafi-wallet-core/internal/core/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

// Client implements ports.ChainClient over the Solana JSON-RPC API.
type Client struct {
	rpc          *rpc.Client
	pollInterval time.Duration
	log          zerolog.Logger
}

// New creates a chain client for the configured network. An explicit
// RPC endpoint overrides the public endpoint of the network tier.
func New(cfg config.ChainConfig, log zerolog.Logger) (*Client, error) {
	endpoint := cfg.RPCEndpoint
	if endpoint == "" {
		var err error
		endpoint, err = publicEndpoint(domain.Network(cfg.Network))
		if err != nil {
			return nil, err
		}
	}

	pollInterval := cfg.ConfirmPollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	log.Info().
		Str("network", cfg.Network).
		Str("endpoint", endpoint).
		Msg("Solana RPC client configured")

	return &Client{
		rpc:          rpc.New(endpoint),
		pollInterval: pollInterval,
		log:          log,
	}, nil
}

func publicEndpoint(network domain.Network) (string, error) {
	switch network {
	case domain.NetworkDevnet:
		return rpc.DevNet_RPC, nil
	case domain.NetworkTestnet:
		return rpc.TestNet_RPC, nil
	case domain.NetworkMainnet:
		return rpc.MainNetBeta_RPC, nil
	default:
		return "", fmt.Errorf("unknown network: %q", network)
	}
}

// GetBalance returns the lamport balance of an address.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("parse address: %w", err)
	}

	out, err := c.rpc.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("getBalance: %w", err)
	}
	return out.Value, nil
}

// RequestAirdrop asks the faucet to fund an address and returns the
// transaction signature. The caller confirms separately.
func (c *Client) RequestAirdrop(ctx context.Context, address string, lamports uint64) (string, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", fmt.Errorf("parse address: %w", err)
	}

	sig, err := c.rpc.RequestAirdrop(ctx, pubkey, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("requestAirdrop: %w", err)
	}
	return sig.String(), nil
}

// ConfirmTransaction polls signature status until the transaction reaches
// at least confirmed commitment, fails on-chain, or ctx expires.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			// A transient status-poll failure is retried until the deadline.
			c.log.Debug().Err(err).Str("signature", signature).Msg("signature status poll failed")
		} else if len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on chain: %v", signature, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
