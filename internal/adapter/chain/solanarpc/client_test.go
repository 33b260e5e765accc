package solanarpc

import (
	"testing"

	"solafi-wallet-core/config"
	"solafi-wallet-core/internal/core/domain"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicEndpoint(t *testing.T) {
	tests := []struct {
		network domain.Network
		want    string
	}{
		{domain.NetworkDevnet, rpc.DevNet_RPC},
		{domain.NetworkTestnet, rpc.TestNet_RPC},
		{domain.NetworkMainnet, rpc.MainNetBeta_RPC},
	}

	for _, tt := range tests {
		t.Run(string(tt.network), func(t *testing.T) {
			got, err := publicEndpoint(tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicEndpoint_Unknown(t *testing.T) {
	_, err := publicEndpoint(domain.Network("localnet"))
	require.Error(t, err)
}

func TestNew_EndpointOverride(t *testing.T) {
	client, err := New(config.ChainConfig{
		Network:     "testnet",
		RPCEndpoint: "http://localhost:8899",
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, client.rpc)
}

func TestNew_UnknownNetwork(t *testing.T) {
	_, err := New(config.ChainConfig{Network: "petnet"}, zerolog.Nop())
	require.Error(t, err)
}
