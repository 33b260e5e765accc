package service

import (
	"context"

	"solafi-wallet-core/internal/core/domain"
)

// NoopSettler implements ports.Settler without moving funds. Sends
// complete immediately after recording; a real debit/credit engine slots
// in behind the same interface when settlement lands.
type NoopSettler struct{}

// NewNoopSettler creates a NoopSettler.
func NewNoopSettler() *NoopSettler {
	return &NoopSettler{}
}

// Settle acknowledges the transaction without side effects.
func (s *NoopSettler) Settle(_ context.Context, _ *domain.Transaction) error {
	return nil
}
