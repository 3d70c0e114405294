package config

import (
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/solrazr/tokensale-go-sdk/pkg/constants"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         bool
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network
	RPCURL     string
	Commitment string
	Timeout    time.Duration
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger
}

// DefaultRPCConfig yields production-safe defaults (mainnet, finalized commitment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: "finalized",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.New(io.Discard),
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// SaleConfig names the deployed programs and fixed accounts one sale talks
// to. The sale and whitelist program IDs and the whitelist map address are
// deployment constants supplied from outside, never computed.
type SaleConfig struct {
	SaleProgram      solana.PublicKey
	WhitelistProgram solana.PublicKey
	WhitelistMap     solana.PublicKey
	TokenProgram     solana.PublicKey
	ATAProgram       solana.PublicKey
	USDTMint         solana.PublicKey
	SaleMint         solana.PublicKey

	// SettleDelay is an extra wait after confirmation before an operation
	// reports success, giving downstream reads a settled view.
	SettleDelay time.Duration
}

// DefaultSaleConfig fills the SPL program slots; deployment-specific keys
// (sale program, whitelist, mints) must be set by the caller.
func DefaultSaleConfig() SaleConfig {
	return SaleConfig{
		TokenProgram: constants.TokenProgramID,
		ATAProgram:   constants.AssociatedTokenProgramID,
		USDTMint:     constants.USDTMint,
		SettleDelay:  0,
	}
}
